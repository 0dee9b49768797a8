package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/repository"
	"github.com/yourusername/pitwall/internal/simulator"
)

var (
	// ErrTooManyRuns is returned when a request exceeds the configured run cap
	ErrTooManyRuns = errors.New("requested runs exceed the configured maximum")
	// ErrPersistenceDisabled is returned for storage calls without a database
	ErrPersistenceDisabled = errors.New("prediction storage is not configured")
)

// PredictionRequest describes a Monte Carlo forecast
type PredictionRequest struct {
	Season     int                          `json:"season" validate:"omitempty,gte=1950"`
	GrandPrix  string                       `json:"grand_prix" validate:"required"`
	Runs       int                          `json:"runs" validate:"gte=0,lte=1000000"`
	Workers    int                          `json:"workers" validate:"gte=0"`
	Seed       int64                        `json:"seed"`
	Mode       string                       `json:"mode" validate:"omitempty,simmode"`
	Parameters *models.SimulationParameters `json:"parameters,omitempty"`
	Persist    bool                         `json:"persist"`
}

// PredictionOptions configures a PredictionService
type PredictionOptions struct {
	Defaults config.SimulationConfig
	MaxRuns  int
	Season   int
}

// PredictionOutcome pairs the raw aggregate with its storable form
type PredictionOutcome struct {
	Result *simulator.MonteCarloResult `json:"result"`
	Run    *models.PredictionRun       `json:"run"`
	Stored bool                        `json:"stored"`
}

// PredictionService runs forecasts and optionally persists them
type PredictionService struct {
	sim     *simulator.Simulator
	catalog *catalog.Catalog
	repo    repository.PredictionRepository
	opts    PredictionOptions
	simLog  *logger.SimulationLogger
	audit   *logger.AuditLogger
	logger  *logrus.Logger
}

// NewPredictionService creates a new prediction service. repo may be nil,
// in which case forecasts are never stored.
func NewPredictionService(
	sim *simulator.Simulator,
	cat *catalog.Catalog,
	repo repository.PredictionRepository,
	opts PredictionOptions,
	log *logrus.Logger,
) (*PredictionService, error) {
	if sim == nil {
		return nil, fmt.Errorf("simulator is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if log == nil {
		log = logrus.New()
	}
	return &PredictionService{
		sim:     sim,
		catalog: cat,
		repo:    repo,
		opts:    opts,
		simLog:  logger.NewSimulationLogger(log),
		audit:   logger.NewAuditLogger(log),
		logger:  log,
	}, nil
}

// CanPersist reports whether a repository is configured
func (s *PredictionService) CanPersist() bool {
	return s.repo != nil
}

// Predict runs the forecast. When ctx is cancelled the outcome over the
// completed runs is returned alongside the error and nothing is stored.
func (s *PredictionService) Predict(ctx context.Context, req PredictionRequest, progress func(completed, total int)) (*PredictionOutcome, error) {
	circuit, err := s.catalog.LookupCircuit(req.GrandPrix)
	if err != nil {
		return nil, err
	}

	runs := req.Runs
	if runs <= 0 {
		runs = s.opts.Defaults.Runs
	}
	if s.opts.MaxRuns > 0 && runs > s.opts.MaxRuns {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyRuns, runs, s.opts.MaxRuns)
	}
	workers := req.Workers
	if workers <= 0 {
		workers = s.opts.Defaults.Workers
	}
	params := defaultParameters(s.opts.Defaults)
	if req.Parameters != nil {
		params = *req.Parameters
	}

	result, runErr := s.sim.RunMonteCarlo(ctx, circuit, s.catalog.Drivers(), simulator.MonteCarloConfig{
		Runs:     runs,
		Workers:  workers,
		Seed:     resolveSeed(req.Seed, s.opts.Defaults.Seed),
		Mode:     resolveMode(req.Mode, s.opts.Defaults.Mode),
		Params:   params,
		Progress: progress,
	})
	if result == nil {
		return nil, runErr
	}
	metrics.RecordMonteCarlo(circuit.ID, result.Runs, result.Duration.Seconds())

	season := req.Season
	if season == 0 {
		season = s.opts.Season
	}
	if season == 0 {
		season = time.Now().Year()
	}
	run := s.ToPredictionRun(result, season)
	outcome := &PredictionOutcome{Result: result, Run: run}

	fav, _ := run.Favourite()
	s.simLog.LogPredictionCompleted(run.ID.String(), circuit.ID, result.Requested, result.Runs, fav.DriverID, fav.AveragePoints, float64(result.Duration.Milliseconds()))

	if runErr != nil {
		return outcome, runErr
	}

	if req.Persist {
		if s.repo == nil {
			return outcome, ErrPersistenceDisabled
		}
		if err := s.repo.Create(ctx, run); err != nil {
			return outcome, fmt.Errorf("failed to store prediction: %w", err)
		}
		outcome.Stored = true
		metrics.RecordPredictionStored()
		s.audit.LogPredictionStored(run.ID.String(), run.Season, run.CircuitID, run.Runs, run.Seed, run.CreatedAt)
	}
	return outcome, nil
}

// ToPredictionRun converts an aggregate into its storable form, ranked by
// average points
func (s *PredictionService) ToPredictionRun(result *simulator.MonteCarloResult, season int) *models.PredictionRun {
	run := &models.PredictionRun{
		ID:         uuid.New(),
		Season:     season,
		CircuitID:  result.Circuit.ID,
		Mode:       string(result.Mode),
		Runs:       result.Runs,
		Seed:       result.Seed,
		Parameters: result.Params,
		Entries:    make([]models.PredictionEntry, 0, len(result.Predictions)),
		CreatedAt:  time.Now().UTC(),
	}
	for i, p := range result.Predictions {
		team := p.Driver.Team
		if team == "" {
			team = s.catalog.Team(p.Driver.TeamID).Name
		}
		run.Entries = append(run.Entries, models.PredictionEntry{
			Rank:              i + 1,
			DriverID:          p.Driver.ID,
			DriverName:        p.Driver.Name,
			Team:              team,
			AveragePoints:     p.AveragePoints,
			AveragePosition:   p.AveragePosition,
			WinProbability:    p.WinProbability,
			PodiumProbability: p.PodiumProbability,
			DNFProbability:    p.DNFProbability,
		})
	}
	return run
}

// Get loads a stored prediction
func (s *PredictionService) Get(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.repo.GetByID(ctx, id)
}

// Recent lists stored predictions, newest first
func (s *PredictionService) Recent(ctx context.Context, season int, circuitID string, limit int) ([]*models.PredictionRun, error) {
	if s.repo == nil {
		return nil, ErrPersistenceDisabled
	}
	if circuitID != "" {
		circuitID = catalog.NormalizeGPName(circuitID)
	}
	return s.repo.ListRecent(ctx, season, circuitID, limit)
}
