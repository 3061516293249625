package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Ingestion metrics
	RowsScored     prometheus.Counter
	RowsSkipped    *prometheus.CounterVec
	WavesIngested  prometheus.Counter
	IngestDuration prometheus.Histogram

	// Action plan metrics
	PlansCreated    prometheus.Counter
	PlanTransitions *prometheus.CounterVec
	PlansOverdue    prometheus.Gauge

	// Reconciliation metrics
	ReconciliationMismatches *prometheus.CounterVec
	AuditRuns                prometheus.Counter

	// Transport metrics
	EndpointLatency *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		RowsScored: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storepulse_rows_scored_total",
			Help: "Total number of raw audit rows scored",
		}),
		RowsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storepulse_rows_skipped_total",
			Help: "Total number of raw audit rows skipped, labeled by defect code",
		}, []string{"reason"}),
		WavesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storepulse_waves_ingested_total",
			Help: "Total number of wave files ingested",
		}),
		IngestDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "storepulse_ingest_duration_seconds",
			Help:    "Duration of a full wave ingestion in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		PlansCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storepulse_action_plans_created_total",
			Help: "Total number of action plans generated",
		}),
		PlanTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storepulse_plan_transitions_total",
			Help: "Total number of lifecycle transitions, labeled by transition and outcome",
		}, []string{"transition", "outcome"}),
		PlansOverdue: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "storepulse_plans_overdue",
			Help: "Current number of action plans past their due date",
		}),
		ReconciliationMismatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "storepulse_reconciliation_mismatches_total",
			Help: "Total number of computed-vs-authoritative mismatches, labeled by scope",
		}, []string{"scope"}),
		AuditRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "storepulse_audit_runs_total",
			Help: "Total number of reconciliation audit runs",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storepulse_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}

// ObserveEndpointLatency records latency for an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordTransition records a lifecycle transition attempt.
func (m *Metrics) RecordTransition(transition, outcome string) {
	if m == nil {
		return
	}
	m.PlanTransitions.WithLabelValues(transition, outcome).Inc()
}

// RecordRowSkipped records a skipped row by defect reason.
func (m *Metrics) RecordRowSkipped(reason string) {
	if m == nil {
		return
	}
	m.RowsSkipped.WithLabelValues(reason).Inc()
}
