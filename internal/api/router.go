package api

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter wires the v1 API, health and metrics endpoints behind request-ID,
// access-log and panic-recovery middleware.
func NewRouter(h *Handlers) http.Handler {
	r := mux.NewRouter()

	r.Handle("/health", h.Metrics.WrapHandler("health", http.HandlerFunc(h.Health))).Methods(http.MethodGet)
	r.Handle("/metrics", h.Metrics.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Handle("/predict", h.Metrics.WrapHandler("predict", http.HandlerFunc(h.Predict))).Methods(http.MethodPost)
	v1.Handle("/properties/ranking", h.Metrics.WrapHandler("ranking", http.HandlerFunc(h.Ranking))).Methods(http.MethodGet)
	v1.Handle("/properties/{id:[0-9]+}/valuation", h.Metrics.WrapHandler("valuation", http.HandlerFunc(h.Valuation))).Methods(http.MethodGet)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{log: h.Log}),
		handlers.PrintRecoveryStack(false),
	)
	return recovery(withRequestID(withAccessLog(h.Log, r)))
}
