// Package metrics defines historical data metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Data counter vectors
var (
	DataFetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "data_fetches_total",
		Help:      "Total number of historical data fetches by source, resource and status",
	}, []string{"source", "resource", "status"})

	CacheLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of data cache lookups by result",
	}, []string{"result"})
)

// Data histogram vectors
var (
	DataFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "data_fetch_duration_seconds",
		Help:      "Duration of historical data fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// RecordDataFetch records a historical data fetch.
// status should be one of: "success", "failure"
func RecordDataFetch(source, resource, status string, durationSeconds float64) {
	DataFetchesTotal.WithLabelValues(source, resource, status).Inc()
	DataFetchDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}
