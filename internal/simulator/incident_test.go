package simulator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitwall/internal/models"
)

func TestMechanicalChance(t *testing.T) {
	im := NewIncidentModel(DefaultTuning())
	params := models.SimulationParameters{ReliabilityFactor: 0.95, WeatherFactor: 1}

	assert.InDelta(t, (1-0.96)/0.95, im.MechanicalChance(0.96, params, 45), 1e-12)
	assert.Zero(t, im.MechanicalChance(1.0, params, 45))

	tiny := models.SimulationParameters{ReliabilityFactor: 0.001, WeatherFactor: 1}
	assert.Equal(t, 1.0, im.MechanicalChance(0.9, tiny, 45))
}

func TestMechanicalChancePerRace(t *testing.T) {
	tuning := DefaultTuning()
	tuning.FailureBasis = FailurePerRace
	im := NewIncidentModel(tuning)
	params := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1}

	perLap := im.MechanicalChance(0.9, params, 40)
	survive := math.Pow(1-perLap, 40)
	assert.InDelta(t, 0.9, survive, 1e-9)
}

func TestRacingChance(t *testing.T) {
	im := NewIncidentModel(DefaultTuning())

	dry := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1}
	damp := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 0.8}
	wet := models.SimulationParameters{ReliabilityFactor: 0.5, WeatherFactor: 0.5}

	assert.InDelta(t, 0.0005, im.RacingChance(dry), 1e-12)
	assert.InDelta(t, 0.0005, im.RacingChance(damp), 1e-12)
	assert.InDelta(t, 0.0005*3/0.5, im.RacingChance(wet), 1e-12)
}

func TestCheckRetiresOnceAndSkipsInactive(t *testing.T) {
	im := NewIncidentModel(DefaultTuning())
	state := &RaceState{
		Params: models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1},
		Lap:    12,
		Positions: []PositionState{
			{Driver: models.Driver{ID: "gone"}, Reliability: 0.5, Active: false},
			{Driver: models.Driver{ID: "fragile"}, Reliability: 0.5, Active: true},
			{Driver: models.Driver{ID: "solid"}, Reliability: 1.0, Active: true},
		},
		eligibleLaps: 40,
	}

	// every draw is 0.1: fragile fails mechanically, solid survives the
	// mechanical check and the 0.0005 racing chance
	retired := im.Check(state, &scriptedSource{floats: []float64{0.1}})
	if assert.Len(t, retired, 1) {
		assert.Equal(t, "fragile", retired[0].Driver.ID)
		assert.Equal(t, IncidentMechanical, retired[0].Kind)
		assert.Equal(t, 12, retired[0].Lap)
		assert.Equal(t, 2, retired[0].Position)
		assert.Contains(t, mechanicalIncidents, retired[0].Description)
	}
	assert.False(t, state.Positions[1].Active)
	assert.True(t, state.Positions[2].Active)

	again := im.Check(state, &scriptedSource{floats: []float64{0.1}})
	assert.Empty(t, again)
	assert.Len(t, state.Retirements, 1)
}

func TestRacingIncidentChannel(t *testing.T) {
	im := NewIncidentModel(DefaultTuning())
	state := &RaceState{
		Params:       models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1},
		Lap:          20,
		Positions:    []PositionState{{Driver: models.Driver{ID: "x"}, Reliability: 1.0, Active: true}},
		eligibleLaps: 40,
	}

	retired := im.Check(state, &scriptedSource{floats: []float64{0.0001}})
	if assert.Len(t, retired, 1) {
		assert.Equal(t, IncidentRacing, retired[0].Kind)
		assert.Contains(t, racingIncidents, retired[0].Description)
	}
}
