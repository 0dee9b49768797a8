package simulator

import (
	"math"

	"github.com/yourusername/pitwall/internal/models"
)

// IncidentKind distinguishes the two failure channels
type IncidentKind string

const (
	IncidentMechanical IncidentKind = "mechanical"
	IncidentRacing     IncidentKind = "racing"
	IncidentOther      IncidentKind = "other"
)

var mechanicalIncidents = []string{
	"Engine failure",
	"Brake failure",
	"Hydraulic issue",
	"Electrical problem",
	"Gearbox failure",
	"Power unit issue",
	"Suspension damage",
	"Fuel pressure problem",
	"Cooling system issue",
}

var racingIncidents = []string{
	"Lost control in the corner",
	"Collision with another driver",
	"Puncture",
}

// Retirement records a driver leaving the race
type Retirement struct {
	Driver      models.Driver `json:"driver"`
	Lap         int           `json:"lap"`
	Position    int           `json:"position"`
	Kind        IncidentKind  `json:"kind"`
	Description string        `json:"description"`
}

// IncidentModel decides mechanical failures and racing incidents
type IncidentModel struct {
	tuning Tuning
}

// NewIncidentModel creates an incident model
func NewIncidentModel(tuning Tuning) *IncidentModel {
	return &IncidentModel{tuning: tuning}
}

// MechanicalChance is the failure chance for a team reliability on one
// eligible lap
func (im *IncidentModel) MechanicalChance(reliability float64, params models.SimulationParameters, eligibleLaps int) float64 {
	chance := (1 - reliability) * (1 / params.ReliabilityFactor)
	if chance <= 0 {
		return 0
	}
	if chance >= 1 {
		return 1
	}
	if im.tuning.FailureBasis == FailurePerRace && eligibleLaps > 1 {
		return 1 - math.Pow(1-chance, 1/float64(eligibleLaps))
	}
	return chance
}

// RacingChance is the per-lap chance of a racing incident
func (im *IncidentModel) RacingChance(params models.SimulationParameters) float64 {
	factor := 1.0
	if params.WeatherFactor < im.tuning.WetIncidentThreshold {
		factor = im.tuning.WetIncidentMultiplier
	}
	return im.tuning.RacingIncidentRate * factor / params.ReliabilityFactor
}

// Check evaluates both channels for every active entry and retires those hit.
// Inactive entries are skipped.
func (im *IncidentModel) Check(state *RaceState, rng Source) []Retirement {
	var retired []Retirement
	racing := im.RacingChance(state.Params)

	for i := range state.Positions {
		p := &state.Positions[i]
		if !p.Active {
			continue
		}

		var kind IncidentKind
		if rng.Float64() < im.MechanicalChance(p.Reliability, state.Params, state.eligibleLaps) {
			kind = IncidentMechanical
		} else if rng.Float64() < racing {
			kind = IncidentRacing
		} else {
			continue
		}

		r := im.retire(state, i, kind, state.Lap, rng)
		retired = append(retired, r)
	}
	return retired
}

// retire freezes the entry at index i. The lap it retired on is not counted
// as completed.
func (im *IncidentModel) retire(state *RaceState, i int, kind IncidentKind, lap int, rng Source) Retirement {
	p := &state.Positions[i]
	p.Active = false
	r := Retirement{
		Driver:      p.Driver,
		Lap:         lap,
		Position:    i + 1,
		Kind:        kind,
		Description: Describe(kind, rng),
	}
	state.Retirements = append(state.Retirements, r)
	return r
}

// Describe draws an incident description for the given channel
func Describe(kind IncidentKind, rng Source) string {
	catalog := mechanicalIncidents
	if kind == IncidentRacing {
		catalog = racingIncidents
	}
	return catalog[rng.Intn(len(catalog))]
}
