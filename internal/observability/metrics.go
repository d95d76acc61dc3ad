package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	BackendRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Requests sent to the distributor backend",
		},
		[]string{"endpoint", "status"},
	)

	BackendLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_seconds",
			Help:    "Latency of backend requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_total",
			Help: "Global searches by mode",
		},
		[]string{"mode"},
	)

	SourceErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_errors_total",
			Help: "Per-distributor failures during fan-out searches",
		},
		[]string{"source"},
	)

	SkippedRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skipped_records_total",
			Help: "Global search records dropped for an unknown source tag",
		},
	)

	SyncRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Catalog sync jobs by source and result",
		},
		[]string{"source", "result"},
	)
)

var registerOnce sync.Once

func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			BackendRequests,
			BackendLatency,
			SearchesTotal,
			SourceErrors,
			SkippedRecords,
			SyncRuns,
		)
	})
}

// Handler registers the collectors on first use and returns the scrape handler.
func Handler() http.Handler {
	Register()
	return promhttp.Handler()
}
