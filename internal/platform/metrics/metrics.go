// Package metrics holds process-wide Prometheus metrics for the ingestion
// side. The finalize pipeline has its own metrics package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts what the ingest listener does with the upstream stream.
type Metrics struct {
	CasesIngested prometheus.Counter
	EventsSkipped *prometheus.CounterVec
}

// New creates and registers the ingestion metrics.
func New() *Metrics {
	return &Metrics{
		CasesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "caseflow_cases_ingested_total",
			Help: "Total number of cases created from the task-created topic",
		}),
		EventsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "caseflow_ingest_events_skipped_total",
			Help: "Task-created events dropped before reaching the case store",
		}, []string{"reason"}),
	}
}

// IncrementIngested counts one case row created from the stream.
func (m *Metrics) IncrementIngested() {
	if m == nil {
		return
	}
	m.CasesIngested.Inc()
}

// IncrementSkipped counts one dropped event by reason.
func (m *Metrics) IncrementSkipped(reason string) {
	if m == nil {
		return
	}
	m.EventsSkipped.WithLabelValues(reason).Inc()
}
