package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/config"
)

// Initialize creates a database connection pool and checks the schema version
// against the embedded migrations
func Initialize(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*DB, error) {
	// Create connection pool
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	current, err := SchemaVersion(ctx, db, cfg.Database.MigrationsTable, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to check schema version: %w", err)
	}
	latest, err := LatestVersion()
	if err != nil {
		db.Close()
		return nil, err
	}

	if current < latest {
		logger.WithFields(logrus.Fields{
			"current_version": current,
			"latest_version":  latest,
		}).Warn("Database schema is behind; run 'pitwall migrate up'")
	}

	return db, nil
}
