package simulator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
)

func TestNewSimulatorValidation(t *testing.T) {
	_, err := NewSimulator(nil, DefaultTuning(), nil)
	assert.Error(t, err)

	bad := DefaultTuning()
	bad.FailureBasis = "sometimes"
	_, err = NewSimulator(catalog.Default(), bad, nil)
	assert.Error(t, err)

	sim, err := NewSimulator(catalog.Default(), DefaultTuning(), nil)
	require.NoError(t, err)
	assert.NotNil(t, sim.Logger())
}

func TestGridSortedAndActive(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())

	for seed := int64(1); seed <= 20; seed++ {
		state, err := sim.NewRace(testCircuit(50), cat.Drivers(), models.DefaultSimulationParameters(), NewSource(seed))
		require.NoError(t, err)
		require.Len(t, state.Positions, 20)
		assert.Equal(t, StatusRacing, state.Status)

		for i, p := range state.Positions {
			assert.True(t, p.Active)
			assert.Equal(t, i+1, p.Grid)
			if i > 0 {
				assert.LessOrEqual(t, state.Positions[i-1].QualifyingTime, p.QualifyingTime)
			}
		}
	}
}

func TestRejectsInvalidParameters(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())

	tests := []models.SimulationParameters{
		{ReliabilityFactor: 0, WeatherFactor: 1},
		{ReliabilityFactor: 1, WeatherFactor: -1},
	}
	for _, params := range tests {
		_, err := sim.Run(testCircuit(10), cat.Drivers(), params, NewSource(1), nil)
		assert.ErrorIs(t, err, models.ErrInvalidParameters)

		_, err = sim.RunQuick(testCircuit(10), cat.Drivers(), params, NewSource(1))
		assert.ErrorIs(t, err, models.ErrInvalidParameters)
	}

	_, err := sim.Run(testCircuit(-1), cat.Drivers(), models.DefaultSimulationParameters(), NewSource(1), nil)
	assert.ErrorIs(t, err, ErrInvalidCircuit)
}

func TestLapInvariants(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())
	params := models.SimulationParameters{ReliabilityFactor: 0.2, WeatherFactor: 0.6, RandomIncidents: true}
	rng := NewSource(42)

	state, err := sim.NewRace(testCircuit(60), cat.Drivers(), params, rng)
	require.NoError(t, err)

	retired := map[string]bool{}
	for !state.IsComplete() {
		require.NoError(t, sim.Advance(state, rng))
		require.Len(t, state.Positions, 20)

		for _, p := range state.Positions {
			if retired[p.Driver.ID] {
				assert.False(t, p.Active, "%s came back after retiring", p.Driver.ID)
			}
			if !p.Active {
				retired[p.Driver.ID] = true
			} else {
				assert.Greater(t, p.Score, 0.0)
				assert.LessOrEqual(t, p.Score, 1.0)
				assert.Equal(t, state.Lap, p.LapsCompleted)
			}
		}
		if state.Lap <= DefaultTuning().WarmupLaps {
			assert.Empty(t, state.Retirements, "no incidents during warm-up")
		}
	}

	assert.Equal(t, 60, state.Lap)
	assert.Len(t, state.Retirements, len(retired))
	assert.ErrorIs(t, sim.Advance(state, rng), ErrRaceComplete)
}

func TestRetiredEntriesAreFrozen(t *testing.T) {
	sim := newTestSimulator(t, catalog.Default(), DefaultTuning())
	positions := []PositionState{
		{Driver: models.Driver{ID: "front"}, Score: 0.5, Active: false},
		{Driver: models.Driver{ID: "back"}, Score: 0.99, Active: true},
	}

	sim.resolveOvertakes(positions, &scriptedSource{floats: []float64{0}})
	assert.Equal(t, "front", positions[0].Driver.ID)
}

func TestOvertakeSinglePass(t *testing.T) {
	sim := newTestSimulator(t, catalog.Default(), DefaultTuning())
	positions := []PositionState{
		{Driver: models.Driver{ID: "a"}, Score: 0.80, Active: true},
		{Driver: models.Driver{ID: "b"}, Score: 0.90, Active: true},
		{Driver: models.Driver{ID: "c"}, Score: 0.70, Active: true},
	}

	// b passes a (chance 0.25 > 0.1); a now behind c's slower score, no swap
	sim.resolveOvertakes(positions, &scriptedSource{floats: []float64{0.1}})
	assert.Equal(t, []string{"b", "a", "c"}, ids(positions))

	// draw above the chance leaves the order alone
	positions[0].Score, positions[1].Score = 0.80, 0.90
	sim.resolveOvertakes(positions, &scriptedSource{floats: []float64{0.3}})
	assert.Equal(t, []string{"b", "a", "c"}, ids(positions))
}

func ids(positions []PositionState) []string {
	out := make([]string, len(positions))
	for i, p := range positions {
		out[i] = p.Driver.ID
	}
	return out
}

func TestBulletproofScenario(t *testing.T) {
	cat := bulletproofCatalog(t)
	sim := newTestSimulator(t, cat, DefaultTuning())
	params := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1, RandomIncidents: false}

	for seed := int64(1); seed <= 25; seed++ {
		outcome, err := sim.Run(testCircuit(10), cat.Drivers(), params, NewSource(seed), nil)
		require.NoError(t, err)
		require.Len(t, outcome.Results, 3)
		require.NotNil(t, outcome.FastestLap)

		bonuses := 0
		var schedule []float64
		for i, r := range outcome.Results {
			assert.Equal(t, i+1, r.Position)
			assert.Equal(t, models.StatusFinished, r.Status)
			assert.Equal(t, 10, r.Laps)
			require.NotNil(t, r.Time)

			pts := r.Points
			if r.Driver.ID == outcome.FastestLap.Driver.ID {
				pts--
				bonuses++
			}
			schedule = append(schedule, pts)
		}
		assert.Equal(t, 1, bonuses)
		assert.Equal(t, []float64{25, 18, 15}, schedule)
	}
}

func TestEmptyFieldRunsAllLaps(t *testing.T) {
	sim := newTestSimulator(t, catalog.Default(), DefaultTuning())
	laps := 0
	outcome, err := sim.Run(testCircuit(12), nil, models.DefaultSimulationParameters(), NewSource(1), func(s Snapshot) error {
		laps++
		assert.Empty(t, s.Positions)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 12, laps)
	assert.Empty(t, outcome.Results)
	assert.Nil(t, outcome.FastestLap)
}

func TestZeroLapCircuit(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())
	outcome, err := sim.Run(testCircuit(0), cat.Drivers(), models.DefaultSimulationParameters(), NewSource(1), nil)
	require.NoError(t, err)
	assert.Len(t, outcome.Results, 20)
}

func TestObserverErrorStopsRace(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())
	stop := errors.New("client went away")

	seen := 0
	_, err := sim.Run(testCircuit(30), cat.Drivers(), models.DefaultSimulationParameters(), NewSource(1), func(s Snapshot) error {
		seen++
		if s.Lap == 3 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 3, seen)
}

func TestSnapshotIsACopy(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())
	rng := NewSource(5)
	state, err := sim.NewRace(testCircuit(5), cat.Drivers(), models.DefaultSimulationParameters(), rng)
	require.NoError(t, err)
	require.NoError(t, sim.Advance(state, rng))

	snap := state.Snapshot()
	snap.Positions[0].Active = false
	snap.FastestLap.Lap = 99
	assert.True(t, state.Positions[0].Active)
	assert.Equal(t, 1, state.FastestLap.Lap)
}

func TestRunModeUnknown(t *testing.T) {
	sim := newTestSimulator(t, catalog.Default(), DefaultTuning())
	_, err := sim.RunMode("teleport", testCircuit(5), nil, models.DefaultSimulationParameters(), NewSource(1))
	assert.Error(t, err)
}

func TestQuickMode(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())

	outcome, err := sim.RunQuick(testCircuit(57), cat.Drivers(), models.DefaultSimulationParameters(), NewSource(9))
	require.NoError(t, err)
	require.Len(t, outcome.Results, 20)
	assert.Equal(t, ModeQuick, outcome.Mode)
	assert.Nil(t, outcome.FastestLap)

	finished := true
	for i, r := range outcome.Results {
		assert.Equal(t, i+1, r.Position)
		if r.IsRetired() {
			finished = false
			assert.Nil(t, r.Time)
			assert.Zero(t, r.Points)
			assert.GreaterOrEqual(t, r.Laps, 57/3-1)
			assert.Less(t, r.Laps, 57-3)
		} else {
			assert.True(t, finished, "finishers must precede retirees")
		}
	}
}

func TestQuickRetirementLap(t *testing.T) {
	rng := NewSource(1)
	for i := 0; i < 500; i++ {
		lap := quickRetirementLap(57, rng)
		assert.GreaterOrEqual(t, lap, 19)
		assert.Less(t, lap, 54)
	}
	assert.Equal(t, 1, quickRetirementLap(3, rng))
	assert.Equal(t, 0, quickRetirementLap(0, rng))
}

func TestLowReliabilityFactorCausesMoreRetirements(t *testing.T) {
	cat := catalog.Default()
	sim := newTestSimulator(t, cat, DefaultTuning())
	fragile := models.SimulationParameters{ReliabilityFactor: 0.05, WeatherFactor: 1, RandomIncidents: true}
	robust := models.SimulationParameters{ReliabilityFactor: 2.0, WeatherFactor: 1, RandomIncidents: true}

	count := func(params models.SimulationParameters) int {
		dnfs := 0
		for run := 0; run < 40; run++ {
			outcome, err := sim.Run(testCircuit(50), cat.Drivers(), params, NewSource(RunSeed(77, run)), nil)
			require.NoError(t, err)
			dnfs += len(outcome.Retirements)
		}
		return dnfs
	}

	assert.Greater(t, count(fragile), count(robust))
}
