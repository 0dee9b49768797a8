package simulator

import (
	"sort"

	"github.com/yourusername/pitwall/internal/models"
)

// NewGrid runs one qualifying draw per driver and orders the field by
// qualifying time. Equal times keep entry-list order.
func (m *PerformanceModel) NewGrid(circuit models.Circuit, drivers []models.Driver, params models.SimulationParameters, rng Source) *RaceState {
	positions := make([]PositionState, len(drivers))
	for i, d := range drivers {
		quali := m.Qualifying(d, params, rng)
		positions[i] = PositionState{
			Driver:         d,
			Base:           m.Base(d, params),
			Score:          quali,
			Reliability:    m.ratings.Reliability(d.TeamID),
			QualifyingTime: m.LapTime(quali, m.tuning.LapTimeSpread),
			Active:         true,
		}
	}

	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].QualifyingTime < positions[j].QualifyingTime
	})
	for i := range positions {
		positions[i].Grid = i + 1
	}

	eligible := circuit.Laps - m.tuning.WarmupLaps
	if eligible < 1 {
		eligible = 1
	}

	status := StatusRacing
	if circuit.Laps <= 0 {
		status = StatusComplete
	}

	return &RaceState{
		Circuit:      circuit,
		Params:       params,
		Positions:    positions,
		Status:       status,
		eligibleLaps: eligible,
	}
}
