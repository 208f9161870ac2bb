package types

import (
	"fmt"
	"math"
)

// Feature names in the order the scaler and model were fitted on. The names match the
// dataset column headers, including the "Lattitude" spelling.
const (
	FieldBedrooms        = "number of bedrooms"
	FieldBathrooms       = "number of bathrooms"
	FieldLivingArea      = "living area"
	FieldWaterfront      = "waterfront present"
	FieldCondition       = "condition of the house"
	FieldAirportDistance = "Distance from the airport"
	FieldSchools         = "Number of schools nearby"
	FieldLatitude        = "Lattitude"
	FieldLongitude       = "Longitude"
)

// Schema is an ordered list of feature names.
type Schema []string

// FeatureSchema is the fixed feature order. Never mutate it.
var FeatureSchema = Schema{
	FieldBedrooms,
	FieldBathrooms,
	FieldLivingArea,
	FieldWaterfront,
	FieldCondition,
	FieldAirportDistance,
	FieldSchools,
	FieldLatitude,
	FieldLongitude,
}

// NumFeatures is len(FeatureSchema).
const NumFeatures = 9

// Equal reports whether both schemas name the same features in the same order.
func (s Schema) Equal(o Schema) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Index returns the position of name in the schema, or -1.
func (s Schema) Index(name string) int {
	for i, n := range s {
		if n == name {
			return i
		}
	}
	return -1
}

// Features holds the structural and locational attributes of a property.
type Features struct {
	Bedrooms          int
	Bathrooms         float64
	LivingArea        int
	Waterfront        bool
	Condition         int
	AirportDistanceKm float64
	SchoolsNearby     int
	Latitude          float64
	Longitude         float64
}

// Validate checks every field against its domain. Callers collecting input (dataset
// loaders, CLI flags, API bodies) run it before handing features to the engine.
func (f Features) Validate() error {
	switch {
	case f.Bedrooms < 1:
		return fmt.Errorf("%s must be at least 1, got %d", FieldBedrooms, f.Bedrooms)
	case !(f.Bathrooms >= 1):
		return fmt.Errorf("%s must be at least 1.0, got %v", FieldBathrooms, f.Bathrooms)
	case f.LivingArea < 1:
		return fmt.Errorf("%s must be at least 1, got %d", FieldLivingArea, f.LivingArea)
	case f.Condition < 1 || f.Condition > 5:
		return fmt.Errorf("%s must be between 1 and 5, got %d", FieldCondition, f.Condition)
	case !(f.AirportDistanceKm >= 0) || math.IsInf(f.AirportDistanceKm, 0):
		return fmt.Errorf("%s must be a non-negative distance, got %v", FieldAirportDistance, f.AirportDistanceKm)
	case f.SchoolsNearby < 0:
		return fmt.Errorf("%s must not be negative, got %d", FieldSchools, f.SchoolsNearby)
	case !(f.Latitude >= -90 && f.Latitude <= 90):
		return fmt.Errorf("%s must be between -90 and 90, got %v", FieldLatitude, f.Latitude)
	case !(f.Longitude >= -180 && f.Longitude <= 180):
		return fmt.Errorf("%s must be between -180 and 180, got %v", FieldLongitude, f.Longitude)
	}
	return nil
}

// Vector is the ordered numeric encoding of a property's features.
type Vector struct {
	Schema Schema
	Values []float64
}

// PropertyRecord is one row of the reference dataset.
type PropertyRecord struct {
	ID       int64
	Features Features
	Price    float64
}

// Prediction is the model's fair-price estimate.
type Prediction struct {
	Price float64
}

// Verdict classifies an actual price against the predicted one.
type Verdict string

const (
	Overpriced   Verdict = "overpriced"
	Undervalued  Verdict = "undervalued"
	FairlyPriced Verdict = "fairly_priced"
)

// ParseVerdict maps a verdict string back to a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(s); v {
	case Overpriced, Undervalued, FairlyPriced:
		return v, nil
	}
	return "", fmt.Errorf("unknown verdict %q", s)
}

// Valuation is the outcome of comparing an actual price with a prediction.
// Difference is actual minus predicted; Magnitude is its absolute value.
type Valuation struct {
	Verdict    Verdict
	Difference float64
	Magnitude  float64
}

// Comparison bundles a dataset record with its prediction and valuation.
type Comparison struct {
	Record     PropertyRecord
	Prediction Prediction
	Valuation  Valuation
}
