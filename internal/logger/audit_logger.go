// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPredictionStored logs a persisted forecast.
func (al *AuditLogger) LogPredictionStored(predictionID string, season int, circuitID string, runs int, seed int64, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"prediction_id": predictionID,
		"season":        season,
		"circuit_id":    circuitID,
		"runs":          runs,
		"seed":          seed,
		"timestamp":     timestamp.Unix(),
	}).Info("Prediction stored")
}

// LogMigration logs a schema migration run.
func (al *AuditLogger) LogMigration(direction string, fromVersion, toVersion int64) {
	al.WithFields(logrus.Fields{
		"direction":    direction,
		"from_version": fromVersion,
		"to_version":   toVersion,
	}).Info("Database migration applied")
}

// LogScheduledJob logs a scheduled job outcome.
func (al *AuditLogger) LogScheduledJob(job string, started time.Time, err error) {
	entry := al.WithFields(logrus.Fields{
		"job":         job,
		"started_at":  started.Unix(),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Scheduled job failed")
		return
	}
	entry.Info("Scheduled job completed")
}
