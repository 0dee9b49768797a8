// Package metrics defines simulation-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Simulation counter vectors
var (
	SimulationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "simulations_total",
		Help:      "Total number of single race simulations by mode and status",
	}, []string{"mode", "status"})

	RetirementsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retirements_total",
		Help:      "Total number of simulated retirements by incident kind",
	}, []string{"kind"})

	MonteCarloRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "monte_carlo_runs_total",
		Help:      "Total number of Monte Carlo race runs by circuit",
	}, []string{"circuit_id"})
)

// Simulation histogram vectors
var (
	SimulationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "simulation_duration_seconds",
		Help:      "Duration of single race simulations in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"mode"})

	MonteCarloDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "monte_carlo_duration_seconds",
		Help:      "Duration of Monte Carlo predictions in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// RecordSimulation records a single race simulation.
// status should be one of: "success", "failure"
func RecordSimulation(mode, status string, durationSeconds float64) {
	SimulationsTotal.WithLabelValues(mode, status).Inc()
	SimulationDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordRetirement records a simulated retirement.
func RecordRetirement(kind string) {
	RetirementsTotal.WithLabelValues(kind).Inc()
}

// RecordMonteCarlo records a completed Monte Carlo prediction.
func RecordMonteCarlo(circuitID string, runs int, durationSeconds float64) {
	MonteCarloRunsTotal.WithLabelValues(circuitID).Add(float64(runs))
	MonteCarloDuration.Observe(durationSeconds)
}
