package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the finalization pipeline.
type Metrics struct {
	// Terminal outcomes by result (accepted, rejected, blocked)
	Outcomes *prometheus.CounterVec

	// Rule violations by rule id
	Violations *prometheus.CounterVec

	// Upstream calls that had to be retried, by system
	UpstreamRetries *prometheus.CounterVec

	// Full finalize attempt latency
	FinalizeLatency prometheus.Histogram
}

// New creates a Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_finalize_outcomes_total",
			Help: "Terminal finalization outcomes by result",
		}, []string{"result"}),

		Violations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_validation_violations_total",
			Help: "Rule violations reported by the validation engine",
		}, []string{"rule"}),

		UpstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_upstream_retries_total",
			Help: "Upstream calls that failed transiently and were retried",
		}, []string{"system"}),

		FinalizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "caseflow_finalize_duration_seconds",
			Help:    "Duration of one finalize attempt including upstream commits",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
}

// IncrementOutcome records a terminal pipeline result.
func (m *Metrics) IncrementOutcome(result string) {
	if m != nil {
		m.Outcomes.WithLabelValues(result).Inc()
	}
}

// IncrementViolation records one reported rule violation.
func (m *Metrics) IncrementViolation(rule string) {
	if m != nil {
		m.Violations.WithLabelValues(rule).Inc()
	}
}

// IncrementRetry records a retried upstream call.
func (m *Metrics) IncrementRetry(system string) {
	if m != nil {
		m.UpstreamRetries.WithLabelValues(system).Inc()
	}
}

// ObserveFinalizeLatency records the duration of a finalize attempt.
func (m *Metrics) ObserveFinalizeLatency(d time.Duration) {
	if m != nil {
		m.FinalizeLatency.Observe(d.Seconds())
	}
}
