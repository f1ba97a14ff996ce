package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReconcilerMetrics records alert reconciliation activity per department.
type ReconcilerMetrics struct {
	duration    *prometheus.HistogramVec
	runs        *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

// NewReconcilerMetrics registers the reconciler metrics on the provided registerer.
func NewReconcilerMetrics(reg prometheus.Registerer) *ReconcilerMetrics {
	if reg == nil {
		return &ReconcilerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "alert_reconcile_duration_seconds",
		Help:    "Duration of alert reconciliation passes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"department"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_reconcile_runs_total",
		Help: "Alert reconciliation passes by outcome.",
	}, []string{"department", "outcome"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "alert_transitions_total",
		Help: "Alert state transitions produced by reconciliation.",
	}, []string{"department", "transition"})
	reg.MustRegister(duration, runs, transitions)
	return &ReconcilerMetrics{
		duration:    duration,
		runs:        runs,
		transitions: transitions,
	}
}

// ObserveDuration records the duration of one reconciliation pass.
func (r *ReconcilerMetrics) ObserveDuration(department string, duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.WithLabelValues(normalizeLabel(department)).Observe(duration.Seconds())
}

// IncRun counts a reconciliation pass with its outcome ("ok" or "error").
func (r *ReconcilerMetrics) IncRun(department, outcome string) {
	if r == nil || r.runs == nil {
		return
	}
	r.runs.WithLabelValues(normalizeLabel(department), normalizeLabel(outcome)).Inc()
}

// IncTransition counts an alert transition such as "raised_low_stock" or "resolved".
func (r *ReconcilerMetrics) IncTransition(department, transition string) {
	if r == nil || r.transitions == nil {
		return
	}
	r.transitions.WithLabelValues(normalizeLabel(department), normalizeLabel(transition)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
