// Package simulator implements the stochastic race model: grid, lap-by-lap
// progression with overtakes and incidents, classification and Monte Carlo
// aggregation.
package simulator

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/pitwall/internal/models"
)

// Mode selects how a single race is evaluated
type Mode string

const (
	// ModeLap runs the full lap-by-lap engine
	ModeLap Mode = "lap"
	// ModeQuick evaluates each driver once over the whole race
	ModeQuick Mode = "quick"
)

// ErrInvalidCircuit is returned for circuits with a negative lap count
var ErrInvalidCircuit = errors.New("invalid circuit")

// ErrUnknownMode is returned for modes other than lap and quick
var ErrUnknownMode = fmt.Errorf("%w: unknown simulation mode", models.ErrInvalidParameters)

// Outcome is the classification of one simulated race
type Outcome struct {
	Circuit     models.Circuit              `json:"circuit"`
	Params      models.SimulationParameters `json:"params"`
	Mode        Mode                        `json:"mode"`
	Results     []models.RaceResult         `json:"results"`
	Retirements []Retirement                `json:"retirements"`
	FastestLap  *FastestLap                 `json:"fastest_lap,omitempty"`
}

// Simulator runs races against a set of ratings
type Simulator struct {
	tuning    Tuning
	perf      *PerformanceModel
	incidents *IncidentModel
	logger    *logrus.Logger
}

// NewSimulator creates a simulator
func NewSimulator(ratings Ratings, tuning Tuning, logger *logrus.Logger) (*Simulator, error) {
	if ratings == nil {
		return nil, fmt.Errorf("ratings are required")
	}
	if err := tuning.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Simulator{
		tuning:    tuning,
		perf:      NewPerformanceModel(ratings, tuning),
		incidents: NewIncidentModel(tuning),
		logger:    logger,
	}, nil
}

// Tuning returns the model constants
func (s *Simulator) Tuning() Tuning {
	return s.tuning
}

// Performance returns the performance model
func (s *Simulator) Performance() *PerformanceModel {
	return s.perf
}

// Logger returns the simulator logger
func (s *Simulator) Logger() *logrus.Logger {
	return s.logger
}

// Validate checks inputs before any simulation work starts
func (s *Simulator) Validate(circuit models.Circuit, params models.SimulationParameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if circuit.Laps < 0 {
		return fmt.Errorf("%w: %s has %d laps", ErrInvalidCircuit, circuit.ID, circuit.Laps)
	}
	return nil
}

// NewRace validates the inputs and lines up the grid
func (s *Simulator) NewRace(circuit models.Circuit, drivers []models.Driver, params models.SimulationParameters, rng Source) (*RaceState, error) {
	if err := s.Validate(circuit, params); err != nil {
		return nil, err
	}
	return s.perf.NewGrid(circuit, drivers, params, rng), nil
}

// Run simulates a complete race lap by lap. observe may be nil.
func (s *Simulator) Run(circuit models.Circuit, drivers []models.Driver, params models.SimulationParameters, rng Source, observe LapObserver) (*Outcome, error) {
	state, err := s.NewRace(circuit, drivers, params, rng)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	for !state.IsComplete() {
		if err := s.Advance(state, rng); err != nil {
			return nil, err
		}
		if observe != nil {
			if err := observe(state.Snapshot()); err != nil {
				return nil, err
			}
		}
	}

	outcome := s.outcome(state, ModeLap)
	s.logger.WithFields(logrus.Fields{
		"circuit":     circuit.ID,
		"laps":        circuit.Laps,
		"drivers":     len(drivers),
		"retirements": len(state.Retirements),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Race simulated")
	return outcome, nil
}

// RunMode simulates one race in the given mode
func (s *Simulator) RunMode(mode Mode, circuit models.Circuit, drivers []models.Driver, params models.SimulationParameters, rng Source) (*Outcome, error) {
	switch mode {
	case ModeQuick:
		return s.RunQuick(circuit, drivers, params, rng)
	case ModeLap, "":
		return s.Run(circuit, drivers, params, rng, nil)
	default:
		return nil, mode.Validate()
	}
}

// Validate rejects modes the simulator cannot run
func (m Mode) Validate() error {
	switch m {
	case ModeLap, ModeQuick:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownMode, m)
	}
}

func (s *Simulator) outcome(state *RaceState, mode Mode) *Outcome {
	out := &Outcome{
		Circuit:     state.Circuit,
		Params:      state.Params,
		Mode:        mode,
		Results:     s.Results(state),
		Retirements: append([]Retirement(nil), state.Retirements...),
	}
	if state.FastestLap != nil {
		fl := *state.FastestLap
		out.FastestLap = &fl
	}
	return out
}
