package database

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/config"
)

// TestDatabaseEnv names the variable holding the integration test database settings
const TestDatabaseEnv = "PITWALL_TEST_DATABASE_HOST"

// SetupTestDB connects to the integration database and applies migrations.
// The test is skipped when PITWALL_TEST_DATABASE_HOST is unset.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()
	host := os.Getenv(TestDatabaseEnv)
	if host == "" {
		t.Skipf("%s not set; skipping database integration test", TestDatabaseEnv)
	}

	cfg := &config.DatabaseConfig{
		Host:           host,
		Port:           5432,
		Name:           envOr("PITWALL_TEST_DATABASE_NAME", "pitwall_test"),
		User:           envOr("PITWALL_TEST_DATABASE_USER", "pitwall"),
		Password:       os.Getenv("PITWALL_TEST_DATABASE_PASSWORD"),
		SSLMode:        "disable",
		MaxConnections: 4,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := NewDB(ctx, cfg)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)
	if _, err := Migrate(ctx, db, MigrateUp, DefaultMigrationsTable, log); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(db.Close)
	return db
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
