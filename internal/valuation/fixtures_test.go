package valuation

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"appraiser/internal/types"
)

// fixedScaler is a z-score transform with hand-picked parameters.
type fixedScaler struct {
	schema types.Schema
	mean   []float64
	scale  []float64
}

func newFixedScaler() *fixedScaler {
	return &fixedScaler{
		schema: types.FeatureSchema,
		mean:   []float64{3, 2, 2100, 0.1, 3, 20, 2, 50, -100},
		scale:  []float64{1, 0.75, 900, 0.3, 0.7, 12, 1.5, 6, 20},
	}
}

func (s *fixedScaler) Schema() types.Schema { return s.schema }

func (s *fixedScaler) Transform(values []float64) ([]float64, error) {
	if len(values) != len(s.mean) {
		return nil, fmt.Errorf("expected %d values, got %d", len(s.mean), len(values))
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}

// fixedModel is a linear regression with hand-picked weights.
type fixedModel struct {
	schema    types.Schema
	intercept float64
	weights   []float64
	err       error
	calls     atomic.Int64
}

func newFixedModel() *fixedModel {
	return &fixedModel{
		schema:    types.FeatureSchema,
		intercept: 540000,
		weights:   []float64{12000, 35000, 160000, 45000, 18000, -9000, 4000, 2500, -1500},
	}
}

func (m *fixedModel) Schema() types.Schema { return m.schema }

func (m *fixedModel) Predict(values []float64) (float64, error) {
	m.calls.Add(1)
	if m.err != nil {
		return 0, m.err
	}
	if len(values) != len(m.weights) {
		return 0, errors.New("shape mismatch")
	}
	out := m.intercept
	for i, v := range values {
		out += m.weights[i] * v
	}
	return out, nil
}

// memoryDataset is a minimal Dataset over a slice.
type memoryDataset struct {
	byID map[int64]types.PropertyRecord
}

func newMemoryDataset(records ...types.PropertyRecord) *memoryDataset {
	d := &memoryDataset{byID: make(map[int64]types.PropertyRecord, len(records))}
	for _, r := range records {
		d.byID[r.ID] = r
	}
	return d
}

func (d *memoryDataset) Lookup(id int64) (types.PropertyRecord, bool) {
	r, ok := d.byID[id]
	return r, ok
}

func (d *memoryDataset) Records() []types.PropertyRecord {
	out := make([]types.PropertyRecord, 0, len(d.byID))
	for _, r := range d.byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sampleFeatures() types.Features {
	return types.Features{
		Bedrooms:          3,
		Bathrooms:         2.0,
		LivingArea:        2000,
		Waterfront:        false,
		Condition:         3,
		AirportDistanceKm: 10,
		SchoolsNearby:     2,
		Latitude:          52.7609,
		Longitude:         -114.418,
	}
}
