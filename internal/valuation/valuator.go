package valuation

import (
	"fmt"

	"appraiser/internal/types"
)

// Model is a previously trained regression from a normalized vector to a price.
type Model interface {
	Schema() types.Schema
	Predict(values []float64) (float64, error)
}

// Valuator runs the model and compares its output with actual prices.
type Valuator struct {
	model Model
}

// NewValuator wraps m after checking it was trained on types.FeatureSchema.
func NewValuator(m Model) (*Valuator, error) {
	if m == nil {
		return nil, &OpError{Op: "valuation.valuator", Kind: KindSchemaMismatch, Err: fmt.Errorf("no model loaded")}
	}
	if trained := m.Schema(); !trained.Equal(types.FeatureSchema) {
		return nil, &OpError{
			Op:   "valuation.valuator",
			Kind: KindSchemaMismatch,
			Err:  fmt.Errorf("model trained on %q, engine expects %q", trained, types.FeatureSchema),
		}
	}
	return &Valuator{model: m}, nil
}

// Predict invokes the model once on a normalized vector.
func (v *Valuator) Predict(normalized types.Vector) (types.Prediction, error) {
	price, err := v.model.Predict(normalized.Values)
	if err != nil {
		return types.Prediction{}, &OpError{Op: "valuation.predict", Kind: KindInference, Err: err}
	}
	return types.Prediction{Price: price}, nil
}

// Classify compares actual with predicted using exact equality: any nonzero difference
// is over- or under-valued, only an exact match is fairly priced.
func Classify(predicted, actual float64) types.Valuation {
	diff := actual - predicted
	switch {
	case diff > 0:
		return types.Valuation{Verdict: types.Overpriced, Difference: diff, Magnitude: diff}
	case diff < 0:
		return types.Valuation{Verdict: types.Undervalued, Difference: diff, Magnitude: -diff}
	default:
		return types.Valuation{Verdict: types.FairlyPriced}
	}
}
