package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"appraiser/internal/types"
	"appraiser/internal/valuation"
)

const maxBodyBytes = 64 << 10

type valuer interface {
	PredictFromInputs(valuation.Inputs) (types.Prediction, error)
	PredictAndCompare(id int64) (types.Comparison, error)
	Rank(valuation.RankOptions) ([]types.Comparison, error)
}

type regionLookup interface {
	Lookup(lat, lon float64) (string, bool)
}

// Handlers serves the prediction, valuation and ranking endpoints.
type Handlers struct {
	Log     *slog.Logger
	Engine  valuer
	Regions regionLookup // optional
	Metrics *Metrics     // optional
}

type predictResponse struct {
	PredictedPrice float64 `json:"predicted_price"`
}

type valuationResponse struct {
	ID             int64            `json:"id"`
	Features       valuation.Inputs `json:"features"`
	Price          float64          `json:"price"`
	PredictedPrice float64          `json:"predicted_price"`
	Verdict        types.Verdict    `json:"verdict"`
	Difference     float64          `json:"difference"`
	Magnitude      float64          `json:"magnitude"`
	Region         string           `json:"region,omitempty"`
}

type rankingResponse struct {
	Count   int                 `json:"count"`
	Results []valuationResponse `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// Health reports liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "ts": time.Now().UTC()})
}

// Predict decodes a JSON object keyed by feature name, range-checks it and returns
// the fair-price estimate.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	const route = "predict"

	var in valuation.Inputs
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&in); err != nil || in == nil {
		h.Metrics.Prediction(route, "invalid_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object of features", Kind: "invalid_request"})
		return
	}

	f, err := valuation.DecodeFeatures(in)
	if err == nil {
		if verr := f.Validate(); verr != nil {
			err = &valuation.OpError{Op: "api.predict", Kind: valuation.KindInvalidFeature, Err: verr}
		}
	}
	if err != nil {
		h.fail(w, r, route, err)
		return
	}

	pred, err := h.Engine.PredictFromInputs(valuation.InputsFromFeatures(f))
	if err != nil {
		h.fail(w, r, route, err)
		return
	}

	h.Metrics.Prediction(route, "ok")
	writeJSON(w, http.StatusOK, predictResponse{PredictedPrice: pred.Price})
}

// Valuation compares a dataset property's actual price with its predicted price.
func (h *Handlers) Valuation(w http.ResponseWriter, r *http.Request) {
	const route = "valuation"

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		h.Metrics.Prediction(route, "invalid_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid property id", Kind: "invalid_request"})
		return
	}

	c, err := h.Engine.PredictAndCompare(id)
	if err != nil {
		h.fail(w, r, route, err)
		return
	}

	h.Metrics.Prediction(route, "ok")
	h.Metrics.Verdict(string(c.Valuation.Verdict))
	writeJSON(w, http.StatusOK, h.toResponse(c))
}

// Ranking values every dataset property, filtered by verdict and limited by the query.
func (h *Handlers) Ranking(w http.ResponseWriter, r *http.Request) {
	const route = "ranking"

	opts, err := parseRankOptions(r)
	if err != nil {
		h.Metrics.Prediction(route, "invalid_request")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "invalid_request"})
		return
	}

	ranked, err := h.Engine.Rank(opts)
	if err != nil {
		h.fail(w, r, route, err)
		return
	}

	resp := rankingResponse{Count: len(ranked), Results: make([]valuationResponse, 0, len(ranked))}
	for _, c := range ranked {
		h.Metrics.Verdict(string(c.Valuation.Verdict))
		resp.Results = append(resp.Results, h.toResponse(c))
	}
	h.Metrics.Prediction(route, "ok")
	writeJSON(w, http.StatusOK, resp)
}

func parseRankOptions(r *http.Request) (valuation.RankOptions, error) {
	var opts valuation.RankOptions
	qs := r.URL.Query()

	if v := qs.Get("verdict"); v != "" {
		verdict, err := types.ParseVerdict(v)
		if err != nil {
			return opts, err
		}
		opts.Verdict = verdict
	}
	if v := qs.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("limit must be a non-negative integer, got %q", v)
		}
		opts.Limit = n
	}
	return opts, nil
}

func (h *Handlers) toResponse(c types.Comparison) valuationResponse {
	resp := valuationResponse{
		ID:             c.Record.ID,
		Features:       valuation.InputsFromFeatures(c.Record.Features),
		Price:          c.Record.Price,
		PredictedPrice: c.Prediction.Price,
		Verdict:        c.Valuation.Verdict,
		Difference:     c.Valuation.Difference,
		Magnitude:      c.Valuation.Magnitude,
	}
	if h.Regions != nil {
		resp.Region, _ = h.Regions.Lookup(c.Record.Features.Latitude, c.Record.Features.Longitude)
	}
	return resp
}

// fail maps engine error kinds to HTTP statuses.
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, route string, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: err.Error()}

	var oe *valuation.OpError
	if errors.As(err, &oe) {
		resp.Kind = string(oe.Kind)
		resp.Field = oe.Field
		switch oe.Kind {
		case valuation.KindInvalidFeature:
			status = http.StatusBadRequest
		case valuation.KindNotFound:
			status = http.StatusNotFound
		}
	}

	h.Metrics.Prediction(route, outcome(resp.Kind))
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", "route", route, "request_id", RequestID(r.Context()), "error", err)
	} else {
		h.Log.Debug("request rejected", "route", route, "request_id", RequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, resp)
}

func outcome(kind string) string {
	if kind == "" {
		return "error"
	}
	return kind
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
