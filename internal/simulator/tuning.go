package simulator

import (
	"fmt"
	"time"

	"github.com/yourusername/pitwall/internal/config"
)

// FailureBasis selects how team reliability maps to a failure chance
type FailureBasis string

const (
	// FailurePerLap applies the mechanical failure chance on every eligible lap
	FailurePerLap FailureBasis = "per_lap"
	// FailurePerRace spreads the same chance across the eligible laps so it
	// applies roughly once per race
	FailurePerRace FailureBasis = "per_race"
)

// Tuning holds the model constants
type Tuning struct {
	BaseLapTime           time.Duration
	QualifyingVariance    float64
	RaceVariance          float64
	LapVarianceScale      float64
	LapTimeSpread         float64
	RaceTimeSpread        float64
	OvertakeFactor        float64
	WarmupLaps            int
	RacingIncidentRate    float64
	WetIncidentMultiplier float64
	WetIncidentThreshold  float64
	FailureBasis          FailureBasis
	Points                []int
	FastestLapBonus       int
	FastestLapCutoff      int
	PodiumCutoff          int
	MinimumGap            time.Duration
}

// DefaultTuning returns the standard model constants
func DefaultTuning() Tuning {
	return Tuning{
		BaseLapTime:           90 * time.Second,
		QualifyingVariance:    0.015,
		RaceVariance:          0.03,
		LapVarianceScale:      0.01,
		LapTimeSpread:         0.15,
		RaceTimeSpread:        0.20,
		OvertakeFactor:        2.5,
		WarmupLaps:            5,
		RacingIncidentRate:    0.0005,
		WetIncidentMultiplier: 3.0,
		WetIncidentThreshold:  0.8,
		FailureBasis:          FailurePerLap,
		Points:                []int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1},
		FastestLapBonus:       1,
		FastestLapCutoff:      10,
		PodiumCutoff:          3,
		MinimumGap:            100 * time.Millisecond,
	}
}

// FromConfig converts the simulation config section into model constants
func FromConfig(cfg *config.TuningConfig) (Tuning, error) {
	if cfg == nil {
		return Tuning{}, fmt.Errorf("tuning config is required")
	}
	t := DefaultTuning()
	if cfg.BaseLapTimeSeconds > 0 {
		t.BaseLapTime = time.Duration(cfg.BaseLapTimeSeconds * float64(time.Second))
	}
	t.QualifyingVariance = cfg.QualifyingVariance
	t.RaceVariance = cfg.RaceVariance
	t.LapVarianceScale = cfg.LapVarianceScale
	t.LapTimeSpread = cfg.LapTimeSpread
	t.RaceTimeSpread = cfg.RaceTimeSpread
	t.OvertakeFactor = cfg.OvertakeFactor
	t.WarmupLaps = cfg.WarmupLaps
	t.RacingIncidentRate = cfg.RacingIncidentRate
	t.WetIncidentMultiplier = cfg.WetIncidentMultiplier
	t.WetIncidentThreshold = cfg.WetIncidentThreshold
	if cfg.FailureBasis != "" {
		t.FailureBasis = FailureBasis(cfg.FailureBasis)
	}
	if len(cfg.Points) > 0 {
		t.Points = append([]int(nil), cfg.Points...)
	}
	t.FastestLapBonus = cfg.FastestLapBonus
	t.FastestLapCutoff = cfg.FastestLapCutoff

	return t, t.Validate()
}

// Validate validates model constants
func (t Tuning) Validate() error {
	if t.BaseLapTime <= 0 {
		return fmt.Errorf("base lap time must be positive")
	}
	if t.QualifyingVariance < 0 || t.RaceVariance < 0 || t.LapVarianceScale < 0 {
		return fmt.Errorf("variances cannot be negative")
	}
	if t.LapTimeSpread < 0 || t.RaceTimeSpread < 0 {
		return fmt.Errorf("time spreads cannot be negative")
	}
	if t.OvertakeFactor < 0 {
		return fmt.Errorf("overtake factor cannot be negative")
	}
	if t.PodiumCutoff < 1 {
		return fmt.Errorf("podium cutoff must be at least 1")
	}
	if t.WarmupLaps < 0 {
		return fmt.Errorf("warm-up laps cannot be negative")
	}
	if t.RacingIncidentRate < 0 || t.RacingIncidentRate > 1 {
		return fmt.Errorf("racing incident rate must be between 0 and 1")
	}
	if t.WetIncidentMultiplier < 0 {
		return fmt.Errorf("wet incident multiplier cannot be negative")
	}
	switch t.FailureBasis {
	case FailurePerLap, FailurePerRace:
	default:
		return fmt.Errorf("unknown failure basis %q", t.FailureBasis)
	}
	for i, p := range t.Points {
		if p < 0 {
			return fmt.Errorf("points for position %d cannot be negative", i+1)
		}
		if i > 0 && p > t.Points[i-1] {
			return fmt.Errorf("points table must be non-increasing")
		}
	}
	if t.FastestLapBonus < 0 || t.FastestLapCutoff < 0 {
		return fmt.Errorf("fastest lap bonus and cutoff cannot be negative")
	}
	return nil
}

// PointsFor returns championship points for a 1-based finishing position
func (t Tuning) PointsFor(position int) int {
	if position < 1 || position > len(t.Points) {
		return 0
	}
	return t.Points[position-1]
}
