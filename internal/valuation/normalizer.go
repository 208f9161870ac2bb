package valuation

import (
	"fmt"

	"appraiser/internal/types"
)

// Transform is a previously fitted, deterministic rescaling of a feature vector.
type Transform interface {
	Schema() types.Schema
	Transform(values []float64) ([]float64, error)
}

// Normalizer applies a fitted Transform after checking the vector against its schema.
type Normalizer struct {
	transform Transform
	schema    types.Schema
}

// NewNormalizer wraps t. A transform fitted on anything other than types.FeatureSchema
// is a configuration error and is rejected here rather than at prediction time.
func NewNormalizer(t Transform) (*Normalizer, error) {
	if t == nil {
		return nil, &OpError{Op: "valuation.normalizer", Kind: KindSchemaMismatch, Err: fmt.Errorf("no transform loaded")}
	}
	fitted := t.Schema()
	if !fitted.Equal(types.FeatureSchema) {
		return nil, &OpError{
			Op:   "valuation.normalizer",
			Kind: KindSchemaMismatch,
			Err:  fmt.Errorf("transform fitted on %q, engine expects %q", fitted, types.FeatureSchema),
		}
	}
	return &Normalizer{transform: t, schema: fitted}, nil
}

// Normalize rescales v. The result keeps v's schema and order.
func (n *Normalizer) Normalize(v types.Vector) (types.Vector, error) {
	const op = "valuation.normalize"

	if !v.Schema.Equal(n.schema) {
		return types.Vector{}, &OpError{Op: op, Kind: KindSchemaMismatch, Err: fmt.Errorf("vector schema %q does not match fitted schema", v.Schema)}
	}
	if len(v.Values) != len(n.schema) {
		return types.Vector{}, &OpError{Op: op, Kind: KindSchemaMismatch, Err: fmt.Errorf("vector has %d values, fitted schema has %d", len(v.Values), len(n.schema))}
	}

	out, err := n.transform.Transform(v.Values)
	if err != nil {
		return types.Vector{}, &OpError{Op: op, Kind: KindSchemaMismatch, Err: err}
	}
	if len(out) != len(n.schema) {
		return types.Vector{}, &OpError{Op: op, Kind: KindSchemaMismatch, Err: fmt.Errorf("transform returned %d values, want %d", len(out), len(n.schema))}
	}
	return types.Vector{Schema: v.Schema, Values: out}, nil
}
