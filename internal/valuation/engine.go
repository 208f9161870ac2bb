package valuation

import (
	"fmt"
	"io"
	"log/slog"

	"appraiser/internal/types"
)

// Dataset gives read-only access to the reference property records.
type Dataset interface {
	Lookup(id int64) (types.PropertyRecord, bool)
	Records() []types.PropertyRecord
}

// Bundle is the set of artifacts loaded once at startup and shared by all requests.
type Bundle struct {
	Model     Model
	Transform Transform
	Dataset   Dataset
}

// Engine composes builder, normalizer and valuator. It is safe for concurrent use
// because nothing it holds is mutated after New returns.
type Engine struct {
	normalizer *Normalizer
	valuator   *Valuator
	dataset    Dataset
	log        *slog.Logger
}

// New validates the bundle against the feature schema and returns a ready engine.
// A nil dataset disables the comparison path.
func New(b Bundle, log *slog.Logger) (*Engine, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	normalizer, err := NewNormalizer(b.Transform)
	if err != nil {
		return nil, err
	}
	valuator, err := NewValuator(b.Model)
	if err != nil {
		return nil, err
	}

	records := 0
	if b.Dataset != nil {
		records = len(b.Dataset.Records())
	}
	log.Info("valuation engine ready", "features", len(types.FeatureSchema), "records", records)

	return &Engine{
		normalizer: normalizer,
		valuator:   valuator,
		dataset:    b.Dataset,
		log:        log,
	}, nil
}

// PredictFromInputs estimates the price for user-entered features.
func (e *Engine) PredictFromInputs(in Inputs) (types.Prediction, error) {
	vec, err := BuildFromInputs(in)
	if err != nil {
		return types.Prediction{}, err
	}
	return e.predict(vec)
}

// PredictAndCompare values the dataset record with the given ID.
func (e *Engine) PredictAndCompare(id int64) (types.Comparison, error) {
	if e.dataset == nil {
		return types.Comparison{}, &OpError{Op: "valuation.compare", Kind: KindNotFound, Err: fmt.Errorf("no dataset loaded")}
	}
	rec, ok := e.dataset.Lookup(id)
	if !ok {
		return types.Comparison{}, &OpError{Op: "valuation.compare", Kind: KindNotFound, Err: fmt.Errorf("property %d", id)}
	}
	return e.PredictRecord(rec)
}

// PredictRecord values a record the caller already holds.
func (e *Engine) PredictRecord(rec types.PropertyRecord) (types.Comparison, error) {
	vec, err := BuildFromRecord(rec)
	if err != nil {
		return types.Comparison{}, err
	}
	pred, err := e.predict(vec)
	if err != nil {
		return types.Comparison{}, fmt.Errorf("property %d: %w", rec.ID, err)
	}
	return types.Comparison{
		Record:     rec,
		Prediction: pred,
		Valuation:  Classify(pred.Price, rec.Price),
	}, nil
}

func (e *Engine) predict(vec types.Vector) (types.Prediction, error) {
	normalized, err := e.normalizer.Normalize(vec)
	if err != nil {
		return types.Prediction{}, err
	}
	pred, err := e.valuator.Predict(normalized)
	if err != nil {
		return types.Prediction{}, err
	}
	e.log.Debug("prediction", "price", pred.Price)
	return pred, nil
}
