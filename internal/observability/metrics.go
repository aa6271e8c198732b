package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	requestLatencySeconds *prometheus.HistogramVec
	requestErrorsTotal    *prometheus.CounterVec
	gridMutationsTotal    *prometheus.CounterVec
	gridConflictsTotal    prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the journal API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_requests_total",
			Help: "Total number of journal API requests served.",
		}, []string{"method", "route", "status"})

		requestLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "journal_latency_seconds",
			Help:    "Latency distribution for journal API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		requestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_errors_total",
			Help: "Total number of error responses returned by the journal API.",
		}, []string{"method", "route", "status"})

		gridMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "journal_grid_mutations_total",
			Help: "Grid mutations applied during save operations, by kind.",
		}, []string{"kind"})

		gridConflictsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "journal_grid_conflicts_total",
			Help: "Save attempts rejected because the grid changed concurrently.",
		})

		prometheus.MustRegister(
			requestsTotal,
			requestLatencySeconds,
			requestErrorsTotal,
			gridMutationsTotal,
			gridConflictsTotal,
		)
	})
}

// Requests exposes the counter for served requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return requestErrorsTotal
}

// GridMutations exposes the counter for applied grid mutations. Valid kinds
// are "upsert", "delete", "topic" and "homework".
func GridMutations() *prometheus.CounterVec {
	RegisterMetrics()
	return gridMutationsTotal
}

// GridConflicts exposes the counter for rejected concurrent saves.
func GridConflicts() prometheus.Counter {
	RegisterMetrics()
	return gridConflictsTotal
}
