package models

import (
	"fmt"
	"math"
)

// SimulationParameters controls one simulated race
type SimulationParameters struct {
	ReliabilityFactor float64 `json:"reliability_factor" mapstructure:"reliability_factor" validate:"gt=0"`
	WeatherFactor     float64 `json:"weather_factor" mapstructure:"weather_factor" validate:"gt=0"`
	RandomIncidents   bool    `json:"random_incidents" mapstructure:"random_incidents"`
}

// DefaultSimulationParameters returns dry-race defaults with incidents enabled
func DefaultSimulationParameters() SimulationParameters {
	return SimulationParameters{
		ReliabilityFactor: 0.95,
		WeatherFactor:     1.0,
		RandomIncidents:   true,
	}
}

// Validate rejects factors the probability formulas divide by
func (p SimulationParameters) Validate() error {
	if !finite(p.ReliabilityFactor) || !finite(p.WeatherFactor) {
		return fmt.Errorf("%w: factors must be finite, got reliability %v weather %v", ErrInvalidParameters, p.ReliabilityFactor, p.WeatherFactor)
	}
	if p.ReliabilityFactor <= 0 {
		return fmt.Errorf("%w: reliability factor must be positive, got %v", ErrInvalidParameters, p.ReliabilityFactor)
	}
	if p.WeatherFactor <= 0 {
		return fmt.Errorf("%w: weather factor must be positive, got %v", ErrInvalidParameters, p.WeatherFactor)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// IsWet reports whether the weather factor reduces performance
func (p SimulationParameters) IsWet() bool {
	return p.WeatherFactor < 1.0
}
