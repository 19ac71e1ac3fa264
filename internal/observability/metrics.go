package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	requestsTotal       *prometheus.CounterVec
	requestLatency      *prometheus.HistogramVec
	sweepRunsTotal      prometheus.Counter
	sweepFailuresTotal  prometheus.Counter
	sweepClosedTotal    prometheus.Counter
	sweepRecordErrTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pustaka_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pustaka_request_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		sweepRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pustaka_sweep_runs_total",
			Help: "Total number of auto-checkout sweep executions.",
		})

		sweepFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pustaka_sweep_failures_total",
			Help: "Total number of sweep executions that failed to read the candidate set.",
		})

		sweepClosedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pustaka_sweep_records_closed_total",
			Help: "Total number of attendance records closed by the sweep.",
		})

		sweepRecordErrTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pustaka_sweep_record_errors_total",
			Help: "Total number of per-record failures collected during sweeps.",
		})

		prometheus.MustRegister(requestsTotal, requestLatency, sweepRunsTotal, sweepFailuresTotal, sweepClosedTotal, sweepRecordErrTotal)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// RequestLatency exposes the latency histogram for API requests.
func RequestLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatency
}

// SweepRuns counts sweep executions.
func SweepRuns() prometheus.Counter {
	RegisterMetrics()
	return sweepRunsTotal
}

// SweepFailures counts sweeps aborted before closing any record.
func SweepFailures() prometheus.Counter {
	RegisterMetrics()
	return sweepFailuresTotal
}

// SweepRecordsClosed counts records closed by sweeps.
func SweepRecordsClosed() prometheus.Counter {
	RegisterMetrics()
	return sweepClosedTotal
}

// SweepRecordErrors counts per-record failures collected during sweeps.
func SweepRecordErrors() prometheus.Counter {
	RegisterMetrics()
	return sweepRecordErrTotal
}
