// Package metrics provides centralized Prometheus metrics registry for the race simulator.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pitwall"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of API requests by route and status code",
	}, []string{"route", "code"})
	PredictionsStoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_stored_total",
		Help:      "Total number of predictions persisted",
	})
	ScheduledJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_jobs_total",
		Help:      "Total number of scheduled job executions by job and status",
	}, []string{"job", "status"})
)

// Gauge metrics
var (
	ActiveStreams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_streams",
		Help:      "Number of live race streams currently open",
	})
)

// Histogram metrics
var (
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register service metrics
		registry.MustRegister(APIRequestsTotal)
		registry.MustRegister(PredictionsStoredTotal)
		registry.MustRegister(ScheduledJobsTotal)
		registry.MustRegister(ActiveStreams)
		registry.MustRegister(APIRequestDuration)

		// Register simulation metrics
		registry.MustRegister(SimulationsTotal)
		registry.MustRegister(SimulationDuration)
		registry.MustRegister(RetirementsTotal)
		registry.MustRegister(MonteCarloRunsTotal)
		registry.MustRegister(MonteCarloDuration)

		// Register data metrics
		registry.MustRegister(DataFetchesTotal)
		registry.MustRegister(DataFetchDuration)
		registry.MustRegister(CacheLookupsTotal)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAPIRequest records a served API request.
func RecordAPIRequest(route, code string, durationSeconds float64) {
	APIRequestsTotal.WithLabelValues(route, code).Inc()
	APIRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordPredictionStored records a persisted prediction.
func RecordPredictionStored() {
	PredictionsStoredTotal.Inc()
}

// RecordScheduledJob records a scheduled job execution.
// status should be one of: "success", "failure"
func RecordScheduledJob(job, status string) {
	ScheduledJobsTotal.WithLabelValues(job, status).Inc()
}

// StreamOpened increments the live stream gauge.
func StreamOpened() {
	ActiveStreams.Inc()
}

// StreamClosed decrements the live stream gauge.
func StreamClosed() {
	ActiveStreams.Dec()
}
