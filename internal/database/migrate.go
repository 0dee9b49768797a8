package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// DefaultMigrationsTable is the goose version table name
const DefaultMigrationsTable = "schema_migrations"

// Migration commands
const (
	MigrateUp      = "up"
	MigrateDown    = "down"
	MigrateStatus  = "status"
	MigrateVersion = "version"
	MigrateReset   = "reset"
)

// gooseLogger adapts logrus to the goose logger interface
type gooseLogger struct {
	entry *logrus.Entry
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.entry.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level and does not exit; callers handle the returned error
func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.entry.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Migrate runs a goose command against the embedded migrations and returns
// the schema version afterwards
func Migrate(ctx context.Context, db *DB, command, table string, logger *logrus.Logger) (int64, error) {
	if table == "" {
		table = DefaultMigrationsTable
	}

	sqlDB := stdlib.OpenDBFromPool(db.pool)
	defer sqlDB.Close()

	if err := configureGoose(table, logger); err != nil {
		return 0, err
	}

	var err error
	switch command {
	case MigrateUp:
		err = goose.UpContext(ctx, sqlDB, migrationsDir)
	case MigrateDown:
		err = goose.DownContext(ctx, sqlDB, migrationsDir)
	case MigrateStatus:
		err = goose.StatusContext(ctx, sqlDB, migrationsDir)
	case MigrateReset:
		err = goose.ResetContext(ctx, sqlDB, migrationsDir)
	case MigrateVersion:
	default:
		return 0, fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return 0, fmt.Errorf("migration %s failed: %w", command, err)
	}

	return currentVersion(ctx, sqlDB)
}

// SchemaVersion returns the applied migration version
func SchemaVersion(ctx context.Context, db *DB, table string, logger *logrus.Logger) (int64, error) {
	return Migrate(ctx, db, MigrateVersion, table, logger)
}

// LatestVersion returns the newest embedded migration version
func LatestVersion() (int64, error) {
	goose.SetBaseFS(migrationsFS)
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	if err != nil {
		return 0, err
	}
	last, err := migrations.Last()
	if err != nil {
		return 0, err
	}
	return last.Version, nil
}

func configureGoose(table string, logger *logrus.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(table)
	if logger != nil {
		goose.SetLogger(gooseLogger{entry: logger.WithField("component", "migrations")})
	}
	return goose.SetDialect("postgres")
}

func currentVersion(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}
