package simulator

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/pitwall/internal/models"
)

// DefaultRuns is used when no run count is configured
const DefaultRuns = 100

// MonteCarloConfig configures a multi-run forecast
type MonteCarloConfig struct {
	Runs     int
	Workers  int
	Seed     int64
	Mode     Mode
	Params   models.SimulationParameters
	Progress func(completed, total int)
}

// MonteCarloResult represents aggregated forecast outcomes
type MonteCarloResult struct {
	Circuit     models.Circuit              `json:"circuit"`
	Requested   int                         `json:"requested"`
	Runs        int                         `json:"runs"`
	Seed        int64                       `json:"seed"`
	Mode        Mode                        `json:"mode"`
	Params      models.SimulationParameters `json:"params"`
	Aggregate   *Aggregate                  `json:"aggregate"`
	Predictions []Prediction                `json:"predictions"`
	Duration    time.Duration               `json:"duration"`
}

// RunMonteCarlo runs independent races across a worker pool and reduces them
// into per-driver statistics. Run i is seeded from RunSeed(cfg.Seed, i) so the
// result does not depend on the worker count. When ctx is cancelled the
// partial aggregate over completed runs is returned together with ctx.Err().
func (s *Simulator) RunMonteCarlo(ctx context.Context, circuit models.Circuit, drivers []models.Driver, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	if err := s.Validate(circuit, cfg.Params); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeLap
	}
	if err := cfg.Mode.Validate(); err != nil {
		return nil, err
	}
	if cfg.Runs <= 0 {
		cfg.Runs = DefaultRuns
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Runs {
		workers = cfg.Runs
	}

	s.logger.WithFields(logrus.Fields{
		"circuit": circuit.ID,
		"runs":    cfg.Runs,
		"workers": workers,
		"mode":    cfg.Mode,
		"seed":    cfg.Seed,
	}).Info("Starting Monte Carlo simulation")

	start := time.Now()
	partials := make([]*Aggregate, workers)
	var next, completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		local := NewAggregate(drivers, s.tuning.PodiumCutoff)
		partials[w] = local
		g.Go(func() error {
			for gctx.Err() == nil {
				i := int(next.Add(1) - 1)
				if i >= cfg.Runs {
					return nil
				}
				rng := NewSource(RunSeed(cfg.Seed, i))
				outcome, err := s.RunMode(cfg.Mode, circuit, drivers, cfg.Params, rng)
				if err != nil {
					return fmt.Errorf("run %d: %w", i, err)
				}
				local.Add(outcome.Results)
				done := int(completed.Add(1))
				if cfg.Progress != nil {
					cfg.Progress(done, cfg.Runs)
				}
			}
			return nil
		})
	}
	runErr := g.Wait()

	total := NewAggregate(drivers, s.tuning.PodiumCutoff)
	for _, p := range partials {
		total.Merge(p)
	}

	result := &MonteCarloResult{
		Circuit:     circuit,
		Requested:   cfg.Runs,
		Runs:        total.Runs,
		Seed:        cfg.Seed,
		Mode:        cfg.Mode,
		Params:      cfg.Params,
		Aggregate:   total,
		Predictions: total.Predictions(),
		Duration:    time.Since(start),
	}

	if runErr == nil {
		runErr = ctx.Err()
	}
	if runErr != nil {
		s.logger.WithError(runErr).WithField("completed_runs", total.Runs).Warn("Monte Carlo simulation stopped early")
		return result, runErr
	}

	s.logger.WithFields(logrus.Fields{
		"circuit":     circuit.ID,
		"runs":        total.Runs,
		"duration_ms": result.Duration.Milliseconds(),
	}).Info("Monte Carlo simulation completed")
	return result, nil
}

// ExportJSON exports the forecast for downstream consumption
func (m MonteCarloResult) ExportJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}
