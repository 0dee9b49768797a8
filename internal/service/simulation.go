// Package service wires the simulator, data manager and repositories into
// the operations exposed by the CLI and the HTTP API.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/simulator"
)

// SimulationRequest describes a single simulated race
type SimulationRequest struct {
	GrandPrix  string                       `json:"grand_prix" validate:"required"`
	Mode       string                       `json:"mode" validate:"omitempty,simmode"`
	Seed       int64                        `json:"seed"`
	Parameters *models.SimulationParameters `json:"parameters,omitempty"`
}

// SimulationService runs individual races against the catalog entry list
type SimulationService struct {
	sim      *simulator.Simulator
	catalog  *catalog.Catalog
	defaults config.SimulationConfig
	logger   *logger.SimulationLogger
}

// NewSimulationService creates a new simulation service
func NewSimulationService(sim *simulator.Simulator, cat *catalog.Catalog, defaults config.SimulationConfig, log *logrus.Logger) (*SimulationService, error) {
	if sim == nil {
		return nil, fmt.Errorf("simulator is required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	return &SimulationService{
		sim:      sim,
		catalog:  cat,
		defaults: defaults,
		logger:   logger.NewSimulationLogger(log),
	}, nil
}

// Circuits lists the circuits the catalog can simulate
func (s *SimulationService) Circuits() []models.Circuit {
	return s.catalog.Circuits()
}

// Drivers lists the catalog entry list
func (s *SimulationService) Drivers() []models.Driver {
	return s.catalog.Drivers()
}

// Parameters merges request overrides onto the configured defaults
func (s *SimulationService) Parameters(override *models.SimulationParameters) models.SimulationParameters {
	if override != nil {
		return *override
	}
	return defaultParameters(s.defaults)
}

// Simulate runs one race. In lap mode observe receives a snapshot after
// every lap; a cancelled ctx stops the race at the next lap boundary.
func (s *SimulationService) Simulate(ctx context.Context, req SimulationRequest, observe simulator.LapObserver) (*simulator.Outcome, error) {
	circuit, err := s.catalog.LookupCircuit(req.GrandPrix)
	if err != nil {
		return nil, err
	}
	mode := resolveMode(req.Mode, s.defaults.Mode)
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	params := s.Parameters(req.Parameters)
	seed := resolveSeed(req.Seed, s.defaults.Seed)
	drivers := s.catalog.Drivers()
	rng := simulator.NewSource(seed)

	s.logger.LogRaceStarted(circuit.ID, string(mode), len(drivers), circuit.Laps, params.WeatherFactor)
	start := time.Now()

	var outcome *simulator.Outcome
	switch mode {
	case simulator.ModeQuick:
		outcome, err = s.sim.RunQuick(circuit, drivers, params, rng)
	case simulator.ModeLap:
		outcome, err = s.sim.Run(circuit, drivers, params, rng, func(snap simulator.Snapshot) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if observe != nil {
				return observe(snap)
			}
			return nil
		})
	}
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordSimulation(string(mode), "error", elapsed.Seconds())
		return nil, err
	}
	metrics.RecordSimulation(string(mode), "success", elapsed.Seconds())

	for _, r := range outcome.Retirements {
		metrics.RecordRetirement(string(r.Kind))
		s.logger.LogRetirement(circuit.ID, r.Driver.ID, r.Lap, r.Position, string(r.Kind), r.Description)
	}

	winner := ""
	finishers := 0
	for _, r := range outcome.Results {
		if r.Position == 1 {
			winner = r.Driver.ID
		}
		if r.IsFinished() {
			finishers++
		}
	}
	s.logger.LogRaceCompleted(circuit.ID, winner, finishers, len(outcome.Retirements), float64(elapsed.Milliseconds()))
	return outcome, nil
}

func defaultParameters(cfg config.SimulationConfig) models.SimulationParameters {
	params := models.DefaultSimulationParameters()
	if cfg.ReliabilityFactor > 0 {
		params.ReliabilityFactor = cfg.ReliabilityFactor
	}
	if cfg.WeatherFactor > 0 {
		params.WeatherFactor = cfg.WeatherFactor
	}
	params.RandomIncidents = cfg.RandomIncidents
	return params
}

func resolveMode(requested, fallback string) simulator.Mode {
	if requested != "" {
		return simulator.Mode(requested)
	}
	if fallback != "" {
		return simulator.Mode(fallback)
	}
	return simulator.ModeLap
}

func resolveSeed(requested, fallback int64) int64 {
	if requested != 0 {
		return requested
	}
	if fallback != 0 {
		return fallback
	}
	return time.Now().UnixNano()
}
