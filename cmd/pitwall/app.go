package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/database"
	"github.com/yourusername/pitwall/internal/datasource"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/simulator"
)

// quietConsole keeps logs on stderr so reports on stdout stay clean
func quietConsole() {
	appLog.SetOutput(os.Stderr)
}

func newSimulator(cat *catalog.Catalog) (*simulator.Simulator, error) {
	tuning, err := simulator.FromConfig(&cfg.Simulation.Tuning)
	if err != nil {
		return nil, err
	}
	return simulator.NewSimulator(cat, tuning, appLog)
}

func newDataManager(cat *catalog.Catalog) *datasource.Manager {
	return datasource.NewFactory(cfg, appLog).NewManager(cat)
}

// openRepositories connects to the database when it is enabled. The returned
// close func is always safe to call.
func openRepositories(ctx context.Context) (*database.DB, *repository.Repositories, func(), error) {
	if !cfg.Database.Enabled {
		return nil, nil, func() {}, nil
	}
	db, err := database.Initialize(ctx, cfg, appLog)
	if err != nil {
		return nil, nil, func() {}, fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, func() {}, err
	}
	return db, repos, db.Close, nil
}
