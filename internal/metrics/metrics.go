// Package metrics holds the Prometheus instrumentation for the signal
// engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all Prometheus metrics for Courtside.
type Registry struct {
	registry *prometheus.Registry

	DeltasApplied      prometheus.Counter
	CorrectionsEmitted *prometheus.CounterVec
	TriggerEvaluations *prometheus.CounterVec
	SignalsOpened      prometheus.Counter
	SignalsClosed      *prometheus.CounterVec
	EvaluationDuration prometheus.Histogram
	ActiveSignals      prometheus.Gauge
}

// NewRegistry creates a registry with all Courtside metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		DeltasApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_deltas_applied_total",
			Help: "Inbound game deltas merged into snapshots",
		}),
		CorrectionsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_corrections_total",
			Help: "Data integrity corrections emitted by the reducer",
		}, []string{"field"}),
		TriggerEvaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_trigger_evaluations_total",
			Help: "Trigger evaluations by result",
		}, []string{"result"}),
		SignalsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "courtside_signals_opened_total",
			Help: "Signals opened by entry triggers",
		}),
		SignalsClosed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_signals_closed_total",
			Help: "Signals closed by outcome",
		}, []string{"outcome"}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "courtside_evaluation_duration_seconds",
			Help:    "Duration of one full delta evaluation cycle",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		ActiveSignals: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "courtside_active_signals",
			Help: "Currently active signals",
		}),
	}

	reg.MustRegister(
		r.DeltasApplied,
		r.CorrectionsEmitted,
		r.TriggerEvaluations,
		r.SignalsOpened,
		r.SignalsClosed,
		r.EvaluationDuration,
		r.ActiveSignals,
	)
	return r
}

// Handler returns the HTTP handler serving the registry in Prometheus
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gather exposes the underlying gatherer (used by tests to assert on
// recorded values).
func (r *Registry) Gather() prometheus.Gatherer { return r.registry }
