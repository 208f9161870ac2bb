package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API's prometheus collectors.
type Metrics struct {
	registry    *prometheus.Registry
	predictions *prometheus.CounterVec
	verdicts    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewMetrics registers the API collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appraiser_predictions_total",
			Help: "Total predictions served by route and outcome.",
		}, []string{"route", "outcome"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "appraiser_verdicts_total",
			Help: "Total valuation verdicts returned.",
		}, []string{"verdict"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "appraiser_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}

	m.registry.MustRegister(m.predictions, m.verdicts, m.duration)
	return m
}

// WrapHandler records the request duration of next under route.
func (m *Metrics) WrapHandler(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if m != nil {
			m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

// Handler exposes the private registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Prediction counts one prediction request by route and outcome.
func (m *Metrics) Prediction(route, outcome string) {
	if m == nil {
		return
	}
	m.predictions.WithLabelValues(route, outcome).Inc()
}

// Verdict counts one returned valuation verdict.
func (m *Metrics) Verdict(verdict string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(verdict).Inc()
}
