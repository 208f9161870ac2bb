package artifacts

import (
	"fmt"

	"appraiser/internal/types"
	"appraiser/internal/valuation"
)

// Model kinds understood by LoadModel.
const (
	KindLinear = "linear"
	KindForest = "forest"
)

// modelDoc is the on-disk shape of a model artifact.
type modelDoc struct {
	Kind         string    `yaml:"kind"`
	Features     []string  `yaml:"features"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	Trees        []treeDoc `yaml:"trees"`
}

// treeDoc stores a regression tree as parallel node arrays. A node whose left child is -1
// is a leaf carrying Value.
type treeDoc struct {
	ChildrenLeft  []int     `yaml:"children_left"`
	ChildrenRight []int     `yaml:"children_right"`
	Feature       []int     `yaml:"feature"`
	Threshold     []float64 `yaml:"threshold"`
	Value         []float64 `yaml:"value"`
}

const leaf = -1

// LinearModel is an ordinary least-squares style regression: intercept + w·x.
type LinearModel struct {
	schema       types.Schema
	intercept    float64
	coefficients []float64
}

// Schema returns the feature order the model was trained on.
func (m *LinearModel) Schema() types.Schema { return m.schema }

// Predict evaluates the regression on a normalized vector.
func (m *LinearModel) Predict(values []float64) (float64, error) {
	if len(values) != len(m.coefficients) {
		return 0, fmt.Errorf("linear model expects %d values, got %d", len(m.coefficients), len(values))
	}
	out := m.intercept
	for i, v := range values {
		out += m.coefficients[i] * v
	}
	return out, nil
}

// ForestModel averages the outputs of its regression trees.
type ForestModel struct {
	schema types.Schema
	trees  []treeDoc
}

// Schema returns the feature order the model was trained on.
func (m *ForestModel) Schema() types.Schema { return m.schema }

// Predict walks every tree (left when x[feature] <= threshold) and returns the mean leaf value.
func (m *ForestModel) Predict(values []float64) (float64, error) {
	if len(values) != len(m.schema) {
		return 0, fmt.Errorf("forest expects %d values, got %d", len(m.schema), len(values))
	}
	var sum float64
	for _, t := range m.trees {
		sum += t.predict(values)
	}
	return sum / float64(len(m.trees)), nil
}

// predict walks one tree. Inputs are rounded to float32 before each split, as the
// trees were fitted on float32 features and their thresholds sit between float32 values.
func (t treeDoc) predict(values []float64) float64 {
	node := 0
	for t.ChildrenLeft[node] != leaf {
		if float64(float32(values[t.Feature[node]])) <= t.Threshold[node] {
			node = t.ChildrenLeft[node]
		} else {
			node = t.ChildrenRight[node]
		}
	}
	return t.Value[node]
}

// validate checks the node arrays so predict can index them without bounds checks failing.
func (t treeDoc) validate(numFeatures int) error {
	n := len(t.ChildrenLeft)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("tree arrays differ in length")
	}
	for i := 0; i < n; i++ {
		l, r := t.ChildrenLeft[i], t.ChildrenRight[i]
		if l == leaf {
			continue
		}
		// Children always follow their parent, which also rules out cycles.
		if l <= i || l >= n || r <= i || r >= n {
			return fmt.Errorf("node %d has out-of-range children %d/%d", i, l, r)
		}
		if f := t.Feature[i]; f < 0 || f >= numFeatures {
			return fmt.Errorf("node %d splits on unknown feature %d", i, f)
		}
	}
	return nil
}

func buildModel(doc modelDoc) (valuation.Model, error) {
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("model lists no features")
	}
	schema := types.Schema(doc.Features)

	switch doc.Kind {
	case KindLinear:
		if len(doc.Coefficients) != len(schema) {
			return nil, fmt.Errorf("linear model has %d coefficients for %d features", len(doc.Coefficients), len(schema))
		}
		return &LinearModel{schema: schema, intercept: doc.Intercept, coefficients: doc.Coefficients}, nil
	case KindForest:
		if len(doc.Trees) == 0 {
			return nil, fmt.Errorf("forest has no trees")
		}
		for i, t := range doc.Trees {
			if err := t.validate(len(schema)); err != nil {
				return nil, fmt.Errorf("tree %d: %w", i, err)
			}
		}
		return &ForestModel{schema: schema, trees: doc.Trees}, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", doc.Kind)
	}
}
