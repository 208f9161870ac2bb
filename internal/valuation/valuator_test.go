package valuation

import (
	"errors"
	"math"
	"testing"

	"appraiser/internal/types"
)

func TestClassifyScenarios(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		predicted float64
		actual    float64
		verdict   types.Verdict
		magnitude float64
	}{
		{"overpriced", 450000, 500000, types.Overpriced, 50000},
		{"undervalued", 500000, 450000, types.Undervalued, 50000},
		{"fair", 500000, 500000, types.FairlyPriced, 0},
	}

	for _, tc := range cases {
		got := Classify(tc.predicted, tc.actual)
		if got.Verdict != tc.verdict {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.verdict, got.Verdict)
		}
		if got.Magnitude != tc.magnitude {
			t.Fatalf("%s: expected magnitude %v, got %v", tc.name, tc.magnitude, got.Magnitude)
		}
		if got.Difference != tc.actual-tc.predicted {
			t.Fatalf("%s: expected difference %v, got %v", tc.name, tc.actual-tc.predicted, got.Difference)
		}
	}
}

func TestClassifySwapIsAntisymmetric(t *testing.T) {
	t.Parallel()

	pairs := [][2]float64{
		{450000, 500000},
		{1, 2},
		{123456.78, 98765.43},
		{-5, 5},
		{0.1, 0.3},
	}

	opposite := map[types.Verdict]types.Verdict{
		types.Overpriced:  types.Undervalued,
		types.Undervalued: types.Overpriced,
	}

	for _, p := range pairs {
		a := Classify(p[0], p[1])
		b := Classify(p[1], p[0])
		if a.Difference != -b.Difference {
			t.Fatalf("%v: expected opposite differences, got %v and %v", p, a.Difference, b.Difference)
		}
		if a.Magnitude != b.Magnitude {
			t.Fatalf("%v: expected equal magnitudes, got %v and %v", p, a.Magnitude, b.Magnitude)
		}
		if opposite[a.Verdict] != b.Verdict {
			t.Fatalf("%v: expected opposite verdicts, got %s and %s", p, a.Verdict, b.Verdict)
		}
	}
}

func TestClassifyExactEqualityOnly(t *testing.T) {
	t.Parallel()

	for _, price := range []float64{0, 1, 500000, 1e12, -3.25, math.SmallestNonzeroFloat64} {
		got := Classify(price, price)
		if got.Verdict != types.FairlyPriced || got.Magnitude != 0 || got.Difference != 0 {
			t.Fatalf("price %v: expected fairly priced with zero magnitude, got %+v", price, got)
		}
	}

	// No tolerance band: the smallest representable gap is still a verdict.
	next := math.Nextafter(500000, math.Inf(1))
	if got := Classify(500000, next); got.Verdict != types.Overpriced {
		t.Fatalf("expected overpriced for a one-ulp gap, got %s", got.Verdict)
	}
}

func TestNewValuatorRejectsForeignSchema(t *testing.T) {
	t.Parallel()

	m := newFixedModel()
	m.schema = types.Schema{"rooms", "area"}

	_, err := NewValuator(m)
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}

	if _, err := NewValuator(nil); !IsKind(err, KindSchemaMismatch) {
		t.Fatalf("expected schema mismatch for nil model, got %v", err)
	}
}

func TestPredictWrapsModelErrors(t *testing.T) {
	t.Parallel()

	m := newFixedModel()
	m.err = errors.New("boom")
	v, err := NewValuator(m)
	if err != nil {
		t.Fatalf("NewValuator: %v", err)
	}

	_, err = v.Predict(types.Vector{Schema: types.FeatureSchema, Values: make([]float64, types.NumFeatures)})
	if !errors.Is(err, ErrInference) {
		t.Fatalf("expected inference error, got %v", err)
	}
	if !errors.Is(err, m.err) {
		t.Fatalf("expected model error to be wrapped, got %v", err)
	}
	if m.calls.Load() != 1 {
		t.Fatalf("expected exactly one model call, got %d", m.calls.Load())
	}
}

func TestNormalizerSchemaChecks(t *testing.T) {
	t.Parallel()

	s := newFixedScaler()
	n, err := NewNormalizer(s)
	if err != nil {
		t.Fatalf("NewNormalizer: %v", err)
	}

	vec, err := BuildFromInputs(InputsFromFeatures(sampleFeatures()))
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	out, err := n.Normalize(vec)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !out.Schema.Equal(types.FeatureSchema) || len(out.Values) != types.NumFeatures {
		t.Fatalf("expected same arity and order, got %v", out)
	}
	if out.Values[0] != 0 {
		t.Fatalf("expected bedrooms at the mean to normalize to 0, got %v", out.Values[0])
	}

	reordered := types.Vector{Schema: append(types.Schema(nil), vec.Schema...), Values: vec.Values}
	reordered.Schema[0], reordered.Schema[1] = reordered.Schema[1], reordered.Schema[0]
	if _, err := n.Normalize(reordered); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch for reordered vector, got %v", err)
	}

	short := types.Vector{Schema: vec.Schema, Values: vec.Values[:8]}
	if _, err := n.Normalize(short); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch for short vector, got %v", err)
	}

	foreign := newFixedScaler()
	foreign.schema = types.FeatureSchema[:8]
	if _, err := NewNormalizer(foreign); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch for foreign transform, got %v", err)
	}
}

func TestOpErrorFormatting(t *testing.T) {
	t.Parallel()

	root := errors.New("root")
	err := &OpError{Op: "valuation.build", Kind: KindInvalidFeature, Field: types.FieldBedrooms, Err: root}

	want := `valuation.build: invalid_feature (field="number of bedrooms"): root`
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if !errors.Is(err, root) {
		t.Fatalf("expected errors.Is to match cause")
	}
	if errors.Is(err, ErrNotFound) {
		t.Fatalf("expected kinds to differ")
	}
	if !IsKind(err, KindInvalidFeature) {
		t.Fatalf("expected IsKind to match")
	}
}
