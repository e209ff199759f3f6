// Package metrics exposes Prometheus metrics for decisions and the HTTP API.
package metrics

import (
	"errors"
	"net/http"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "finsense"

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// tests and multiple engines never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	// Decision metrics
	Decisions      *prometheus.CounterVec
	DecisionErrors *prometheus.CounterVec
	Transactions   *prometheus.GaugeVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	HTTPInFlight prometheus.Gauge
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		Decisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decisions_total",
				Help:      "Total committed workflow operations by action",
			},
			[]string{"action"},
		),
		DecisionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "decision_errors_total",
				Help:      "Total rejected workflow operations by action and reason",
			},
			[]string{"action", "reason"},
		),
		Transactions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "transactions",
				Help:      "Current number of transactions by status",
			},
			[]string{"status"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveDecision records the outcome of a workflow operation.
func (m *Metrics) ObserveDecision(action model.Action, err error) {
	if err != nil {
		m.DecisionErrors.WithLabelValues(string(action), errorReason(err)).Inc()
		return
	}
	m.Decisions.WithLabelValues(string(action)).Inc()
}

// ObserveCounts sets the per-status gauges.
func (m *Metrics) ObserveCounts(counts model.StatusCounts) {
	for _, s := range []model.Status{model.StatusAutoApproved, model.StatusNeedsReview, model.StatusManual} {
		m.Transactions.WithLabelValues(string(s)).Set(float64(counts.Get(s)))
	}
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, common.ErrNotFound):
		return "not_found"
	case errors.Is(err, common.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, common.ErrInvalidCategory):
		return "invalid_category"
	case errors.Is(err, common.ErrInvalidConfidence), errors.Is(err, common.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, common.ErrDuplicateEntry):
		return "duplicate"
	case errors.Is(err, common.ErrPersistence):
		return "persistence"
	}
	return "other"
}
