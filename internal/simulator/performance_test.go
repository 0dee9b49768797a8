package simulator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
)

func TestBasePerformanceInRange(t *testing.T) {
	model := NewPerformanceModel(catalog.Default(), DefaultTuning())

	drivers := append(catalog.Default().Drivers(),
		models.Driver{ID: "unknown", Name: "Unknown", TeamID: "unknown_team"},
		models.Driver{ID: "", Name: "No ID"},
	)
	weathers := []float64{0.01, 0.5, 0.79, 1.0, 1.5}

	for _, d := range drivers {
		for _, wf := range weathers {
			params := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: wf}
			base := model.Base(d, params)
			assert.Greater(t, base, 0.0)
			assert.LessOrEqual(t, base, 1.0)
		}
	}
}

func TestBasePerformanceDefaults(t *testing.T) {
	model := NewPerformanceModel(catalog.Default(), DefaultTuning())
	params := models.DefaultSimulationParameters()

	unknown := model.Base(models.Driver{ID: "nobody", TeamID: "nowhere"}, params)
	assert.InDelta(t, catalog.DefaultSkill*catalog.DefaultTeamPerformance, unknown, 1e-12)

	ver := model.Base(models.Driver{ID: "ver", TeamID: "red_bull"}, params)
	assert.InDelta(t, 0.98*0.98, ver, 1e-12)
}

func TestWeatherAdjustment(t *testing.T) {
	assert.Equal(t, 1.0, WeatherAdjustment(1.0))
	assert.Equal(t, 1.0, WeatherAdjustment(2.0))
	assert.InDelta(t, 0.85, WeatherAdjustment(0.5), 1e-12)
	assert.InDelta(t, 0.7, WeatherAdjustment(0), 1e-12)
}

func TestPerturbedScoresStayInRange(t *testing.T) {
	model := NewPerformanceModel(catalog.Default(), DefaultTuning())
	rng := NewSource(7)
	params := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 5}
	d := models.Driver{ID: "ver", TeamID: "red_bull"}

	for i := 0; i < 5000; i++ {
		for _, v := range []float64{
			model.Qualifying(d, params, rng),
			model.Race(d, params, rng),
			model.Lap(model.Base(d, params), params, rng),
		} {
			assert.Greater(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestPerturbResamplesNonPositive(t *testing.T) {
	// a huge deviation forces negative draws; the score must never be <= 0
	rng := NewSource(3)
	for i := 0; i < 1000; i++ {
		v := perturb(0.5, 50, rng)
		assert.Greater(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestWetWeatherLowersAveragePerformance(t *testing.T) {
	model := NewPerformanceModel(catalog.Default(), DefaultTuning())
	d := models.Driver{ID: "ham", TeamID: "mercedes"}
	dry := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 1.0}
	wet := models.SimulationParameters{ReliabilityFactor: 1, WeatherFactor: 0.5}

	const draws = 20000
	rng := NewSource(11)
	var drySum, wetSum float64
	for i := 0; i < draws; i++ {
		drySum += model.Race(d, dry, rng)
		wetSum += model.Race(d, wet, rng)
	}
	assert.Less(t, wetSum/draws, drySum/draws)
}

func TestLapTimeConversion(t *testing.T) {
	model := NewPerformanceModel(catalog.Default(), DefaultTuning())

	assert.Equal(t, 90*time.Second, model.LapTime(1.0, 0.15))
	assert.InDelta(t, float64(90*time.Second)*1.015, float64(model.LapTime(0.9, 0.15)), 2)
	assert.Equal(t, model.LapTime(0.9, 0.20)*50, model.RaceTime(0.9, 50))
	assert.Greater(t, model.LapTime(0.8, 0.15), model.LapTime(0.9, 0.15))
}
