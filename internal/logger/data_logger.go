// Package logger provides historical data logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// DataLogger provides dedicated logging for historical data retrieval.
type DataLogger struct {
	*logrus.Entry
}

// NewDataLogger creates a new data logger.
func NewDataLogger(baseLogger *logrus.Logger) *DataLogger {
	return &DataLogger{
		Entry: baseLogger.WithField("component", "data"),
	}
}

// LogFetch logs a remote fetch.
func (dl *DataLogger) LogFetch(source, resource string, season int, gp string, durationMs float64, err error) {
	entry := dl.WithFields(logrus.Fields{
		"source":      source,
		"resource":    resource,
		"season":      season,
		"grand_prix":  gp,
		"duration_ms": durationMs,
	})
	if err != nil {
		entry.WithError(err).Warn("Data fetch failed")
		return
	}
	entry.Info("Data fetched")
}

// LogCacheLookup logs an in-memory cache lookup.
func (dl *DataLogger) LogCacheLookup(key string, hit bool) {
	dl.WithFields(logrus.Fields{
		"key": key,
		"hit": hit,
	}).Debug("Cache lookup")
}

// LogStored logs a file written to the local store.
func (dl *DataLogger) LogStored(path string, bytes int) {
	dl.WithFields(logrus.Fields{
		"path":  path,
		"bytes": bytes,
	}).Debug("Data stored")
}

// LogUpdateCompleted logs a finished season refresh.
func (dl *DataLogger) LogUpdateCompleted(seasons []int, races, failures int, durationMs float64) {
	entry := dl.WithFields(logrus.Fields{
		"seasons":     seasons,
		"races":       races,
		"failures":    failures,
		"duration_ms": durationMs,
	})
	if failures > 0 {
		entry.Warn("Data update completed with failures")
		return
	}
	entry.Info("Data update completed")
}
