// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Sampling metrics
	CandidatesSampled prometheus.Counter

	// Availability check metrics
	LookupsTotal   *prometheus.CounterVec // label: outcome (ok|failed)
	LookupDuration prometheus.Histogram

	// Persistence metrics
	RecordsUpserted *prometheus.CounterVec // label: op (insert|update)
	PersistErrors   prometheus.Counter

	// Pipeline metrics
	RunsTotal   *prometheus.CounterVec // label: state (Done|Failed)
	RunDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "domainscout"
	}

	return &Metrics{
		CandidatesSampled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sampler",
			Name:      "candidates_sampled_total",
			Help:      "Total number of candidates selected from CSV feeds",
		}),
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registrar",
			Name:      "lookups_total",
			Help:      "Total number of availability lookups by outcome",
		}, []string{"outcome"}),
		LookupDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "registrar",
			Name:      "lookup_duration_seconds",
			Help:      "Availability lookup latency",
			Buckets:   prometheus.DefBuckets,
		}),
		RecordsUpserted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "records_upserted_total",
			Help:      "Total number of domain rows written by operation",
		}, []string{"op"}),
		PersistErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_errors_total",
			Help:      "Total number of per-record persistence failures",
		}),
		RunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by terminal state",
		}, []string{"state"}),
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "End-to-end pipeline run duration",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
