package valuation

import (
	"math"

	"appraiser/internal/types"
)

// Inputs carries individually collected scalar values keyed by feature name.
type Inputs map[string]any

// InputsFromFeatures turns typed features into the scalar form accepted by BuildFromInputs.
func InputsFromFeatures(f types.Features) Inputs {
	return Inputs{
		types.FieldBedrooms:        f.Bedrooms,
		types.FieldBathrooms:       f.Bathrooms,
		types.FieldLivingArea:      f.LivingArea,
		types.FieldWaterfront:      f.Waterfront,
		types.FieldCondition:       f.Condition,
		types.FieldAirportDistance: f.AirportDistanceKm,
		types.FieldSchools:         f.SchoolsNearby,
		types.FieldLatitude:        f.Latitude,
		types.FieldLongitude:       f.Longitude,
	}
}

// DecodeFeatures checks presence and semantic type of every input and returns the typed
// features. Integer fields take any integer kind or an integral float, real fields any
// finite number, the waterfront flag only a bool. Ranges are not checked.
func DecodeFeatures(in Inputs) (types.Features, error) {
	const op = "valuation.build"

	for name := range in {
		if types.FeatureSchema.Index(name) < 0 {
			return types.Features{}, invalidFeature(op, name, "unknown feature")
		}
	}

	var (
		f   types.Features
		err error
	)
	integer := func(name string, dst *int) {
		if err != nil {
			return
		}
		var v float64
		if v, err = lookup(in, name); err != nil {
			return
		}
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			err = invalidFeature(op, name, "expected an integer, got %v", v)
			return
		}
		*dst = int(v)
	}
	float := func(name string, dst *float64) {
		if err != nil {
			return
		}
		*dst, err = lookup(in, name)
	}

	integer(types.FieldBedrooms, &f.Bedrooms)
	float(types.FieldBathrooms, &f.Bathrooms)
	integer(types.FieldLivingArea, &f.LivingArea)
	if err == nil {
		switch raw := in[types.FieldWaterfront].(type) {
		case nil:
			err = invalidFeature(op, types.FieldWaterfront, "missing value")
		case bool:
			f.Waterfront = raw
		default:
			err = invalidFeature(op, types.FieldWaterfront, "expected a boolean, got %T", raw)
		}
	}
	integer(types.FieldCondition, &f.Condition)
	float(types.FieldAirportDistance, &f.AirportDistanceKm)
	integer(types.FieldSchools, &f.SchoolsNearby)
	float(types.FieldLatitude, &f.Latitude)
	float(types.FieldLongitude, &f.Longitude)

	if err != nil {
		return types.Features{}, err
	}
	return f, nil
}

// BuildFromInputs assembles the fixed-order vector from scalar inputs.
func BuildFromInputs(in Inputs) (types.Vector, error) {
	f, err := DecodeFeatures(in)
	if err != nil {
		return types.Vector{}, err
	}
	return vectorize(f), nil
}

// BuildFromRecord assembles the vector for a dataset record. It yields the same vector
// as BuildFromInputs(InputsFromFeatures(r.Features)).
func BuildFromRecord(r types.PropertyRecord) (types.Vector, error) {
	return BuildFromInputs(InputsFromFeatures(r.Features))
}

func vectorize(f types.Features) types.Vector {
	waterfront := 0.0
	if f.Waterfront {
		waterfront = 1
	}
	// Order follows types.FeatureSchema.
	return types.Vector{
		Schema: types.FeatureSchema,
		Values: []float64{
			float64(f.Bedrooms),
			f.Bathrooms,
			float64(f.LivingArea),
			waterfront,
			float64(f.Condition),
			f.AirportDistanceKm,
			float64(f.SchoolsNearby),
			f.Latitude,
			f.Longitude,
		},
	}
}

func lookup(in Inputs, name string) (float64, error) {
	raw, ok := in[name]
	if !ok || raw == nil {
		return 0, invalidFeature("valuation.build", name, "missing value")
	}
	v, ok := number(raw)
	if !ok {
		return 0, invalidFeature("valuation.build", name, "expected a number, got %T", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidFeature("valuation.build", name, "expected a finite number, got %v", v)
	}
	return v, nil
}

func number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
