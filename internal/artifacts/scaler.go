package artifacts

import (
	"fmt"

	"appraiser/internal/types"
)

// Scaler kinds understood by LoadScaler.
const (
	KindStandard = "standard"
	KindMinMax   = "minmax"
)

type scalerDoc struct {
	Kind     string    `yaml:"kind"`
	Features []string  `yaml:"features"`
	Mean     []float64 `yaml:"mean"`
	Min      []float64 `yaml:"min"`
	Scale    []float64 `yaml:"scale"`
}

// Scaler is a fitted per-feature affine rescaling: (x - mean) / scale for standard
// scaling, x * scale + min for min-max scaling.
type Scaler struct {
	kind   string
	schema types.Schema
	offset []float64
	scale  []float64
}

// Schema returns the feature order the scaler was fitted on.
func (s *Scaler) Schema() types.Schema { return s.schema }

// Kind reports standard or minmax.
func (s *Scaler) Kind() string { return s.kind }

// Transform rescales values. It never modifies its input.
func (s *Scaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.scale) {
		return nil, fmt.Errorf("scaler expects %d values, got %d", len(s.scale), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if s.kind == KindStandard {
			out[i] = (v - s.offset[i]) / s.scale[i]
		} else {
			out[i] = v*s.scale[i] + s.offset[i]
		}
	}
	return out, nil
}

func buildScaler(doc scalerDoc) (*Scaler, error) {
	n := len(doc.Features)
	if n == 0 {
		return nil, fmt.Errorf("scaler lists no features")
	}
	if len(doc.Scale) != n {
		return nil, fmt.Errorf("scaler has %d scale values for %d features", len(doc.Scale), n)
	}

	s := &Scaler{
		kind:   doc.Kind,
		schema: types.Schema(doc.Features),
		offset: make([]float64, n),
		scale:  make([]float64, n),
	}
	copy(s.scale, doc.Scale)

	switch doc.Kind {
	case KindStandard:
		if len(doc.Mean) != n {
			return nil, fmt.Errorf("scaler has %d means for %d features", len(doc.Mean), n)
		}
		copy(s.offset, doc.Mean)
		for i, v := range s.scale {
			// Constant features were fitted with zero variance.
			if v == 0 {
				s.scale[i] = 1
			}
		}
	case KindMinMax:
		if len(doc.Min) != n {
			return nil, fmt.Errorf("scaler has %d min values for %d features", len(doc.Min), n)
		}
		copy(s.offset, doc.Min)
	default:
		return nil, fmt.Errorf("unknown scaler kind %q", doc.Kind)
	}
	return s, nil
}
