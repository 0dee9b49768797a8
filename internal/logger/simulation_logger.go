// Package logger provides simulation-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// SimulationLogger provides dedicated logging for race simulations.
type SimulationLogger struct {
	*logrus.Entry
}

// NewSimulationLogger creates a new simulation logger.
func NewSimulationLogger(baseLogger *logrus.Logger) *SimulationLogger {
	return &SimulationLogger{
		Entry: baseLogger.WithField("component", "simulation"),
	}
}

// LogRaceStarted logs the start of a single race simulation.
func (sl *SimulationLogger) LogRaceStarted(circuitID, mode string, drivers, laps int, weatherFactor float64) {
	sl.WithFields(logrus.Fields{
		"circuit_id":     circuitID,
		"mode":           mode,
		"drivers":        drivers,
		"laps":           laps,
		"weather_factor": weatherFactor,
	}).Info("Race simulation started")
}

// LogRetirement logs a driver leaving the race.
func (sl *SimulationLogger) LogRetirement(circuitID, driverID string, lap, position int, kind, description string) {
	sl.WithFields(logrus.Fields{
		"circuit_id":  circuitID,
		"driver_id":   driverID,
		"lap":         lap,
		"position":    position,
		"kind":        kind,
		"description": description,
	}).Info("Driver retired")
}

// LogRaceCompleted logs a finished race simulation.
func (sl *SimulationLogger) LogRaceCompleted(circuitID, winnerID string, finishers, retirements int, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"circuit_id":  circuitID,
		"winner_id":   winnerID,
		"finishers":   finishers,
		"retirements": retirements,
		"duration_ms": durationMs,
	}).Info("Race simulation completed")
}

// LogPredictionCompleted logs a finished Monte Carlo forecast.
func (sl *SimulationLogger) LogPredictionCompleted(predictionID, circuitID string, requested, completed int, favouriteID string, favouritePoints, durationMs float64) {
	sl.WithFields(logrus.Fields{
		"prediction_id":    predictionID,
		"circuit_id":       circuitID,
		"runs_requested":   requested,
		"runs_completed":   completed,
		"favourite_id":     favouriteID,
		"favourite_points": favouritePoints,
		"duration_ms":      durationMs,
	}).Info("Prediction completed")
}

// LogReconstruction logs a historical race reconstruction.
func (sl *SimulationLogger) LogReconstruction(season int, circuitID string, classified, retirements int) {
	sl.WithFields(logrus.Fields{
		"season":      season,
		"circuit_id":  circuitID,
		"classified":  classified,
		"retirements": retirements,
	}).Info("Historical race reconstructed")
}
