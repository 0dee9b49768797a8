package simulator

import (
	"time"

	"github.com/yourusername/pitwall/internal/models"
)

// maxResample bounds redraws of a non-positive perturbed score
const maxResample = 16

// Ratings supplies the coefficients the performance model multiplies together.
// *catalog.Catalog satisfies it.
type Ratings interface {
	Skill(driverID string) float64
	TeamPerformance(teamID string) float64
	Reliability(teamID string) float64
}

// PerformanceModel turns ratings and conditions into scores in (0,1]
type PerformanceModel struct {
	ratings Ratings
	tuning  Tuning
}

// NewPerformanceModel creates a performance model
func NewPerformanceModel(ratings Ratings, tuning Tuning) *PerformanceModel {
	return &PerformanceModel{ratings: ratings, tuning: tuning}
}

// Base returns skill x team performance with the wet-weather adjustment
func (m *PerformanceModel) Base(driver models.Driver, params models.SimulationParameters) float64 {
	score := m.ratings.Skill(driver.ID) * m.ratings.TeamPerformance(driver.TeamID)
	if params.WeatherFactor < 1.0 {
		score *= WeatherAdjustment(params.WeatherFactor)
	}
	return clampScore(score)
}

// WeatherAdjustment scales dry performance into [0.7, 1.0) for wet races
func WeatherAdjustment(weatherFactor float64) float64 {
	if weatherFactor >= 1.0 {
		return 1.0
	}
	if weatherFactor < 0 {
		weatherFactor = 0
	}
	return 0.7 + weatherFactor*0.3
}

// Qualifying draws a single-lap qualifying score
func (m *PerformanceModel) Qualifying(driver models.Driver, params models.SimulationParameters, rng Source) float64 {
	return perturb(m.Base(driver, params), m.tuning.QualifyingVariance, rng)
}

// Race draws a score for a whole-race evaluation
func (m *PerformanceModel) Race(driver models.Driver, params models.SimulationParameters, rng Source) float64 {
	return perturb(m.Base(driver, params), m.tuning.RaceVariance, rng)
}

// Lap draws one lap's score around an anchored base score
func (m *PerformanceModel) Lap(base float64, params models.SimulationParameters, rng Source) float64 {
	return perturb(base, m.tuning.LapVarianceScale*params.WeatherFactor, rng)
}

// LapTime converts a score into a lap time using the given spread
func (m *PerformanceModel) LapTime(perf, spread float64) time.Duration {
	return time.Duration(float64(m.tuning.BaseLapTime) * (1 + (1-perf)*spread))
}

// RaceTime converts an average race score into a total elapsed time
func (m *PerformanceModel) RaceTime(perf float64, laps int) time.Duration {
	return m.LapTime(perf, m.tuning.RaceTimeSpread) * time.Duration(laps)
}

func perturb(base, sd float64, rng Source) float64 {
	if base <= 0 {
		return minScore
	}
	for i := 0; i < maxResample; i++ {
		v := base * (1 + rng.NormFloat64()*sd)
		if v > 0 {
			return clampScore(v)
		}
	}
	return clampScore(base)
}

const minScore = 1e-9

func clampScore(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v <= 0:
		return minScore
	default:
		return v
	}
}
