package simulator

import (
	"sort"

	"github.com/yourusername/pitwall/internal/models"
)

// RunQuick evaluates each driver once over the whole race. Mechanical
// failures are checked once per driver and no fastest lap is awarded.
func (s *Simulator) RunQuick(circuit models.Circuit, drivers []models.Driver, params models.SimulationParameters, rng Source) (*Outcome, error) {
	if err := s.Validate(circuit, params); err != nil {
		return nil, err
	}

	laps := circuit.Laps
	positions := make([]PositionState, len(drivers))
	for i, d := range drivers {
		perf := s.perf.Race(d, params, rng)
		positions[i] = PositionState{
			Driver:        d,
			Base:          s.perf.Base(d, params),
			Score:         perf,
			Reliability:   s.perf.ratings.Reliability(d.TeamID),
			TotalTime:     s.perf.RaceTime(perf, laps),
			ScoreSum:      perf * float64(laps),
			LapsCompleted: laps,
			Active:        true,
		}
	}
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].TotalTime < positions[j].TotalTime
	})

	state := &RaceState{
		Circuit:   circuit,
		Params:    params,
		Positions: positions,
		Lap:       laps,
		Status:    StatusComplete,
	}

	if params.RandomIncidents {
		for i := range state.Positions {
			p := &state.Positions[i]
			if rng.Float64() >= s.incidents.MechanicalChance(p.Reliability, params, 1) {
				continue
			}
			lap := quickRetirementLap(laps, rng)
			p.LapsCompleted = lap - 1
			if p.LapsCompleted < 0 {
				p.LapsCompleted = 0
			}
			p.ScoreSum = p.Score * float64(p.LapsCompleted)
			s.incidents.retire(state, i, IncidentMechanical, lap, rng)
		}
	}

	return s.outcome(state, ModeQuick), nil
}

// quickRetirementLap draws a lap uniformly from [laps/3, laps-3)
func quickRetirementLap(laps int, rng Source) int {
	lo, hi := laps/3, laps-3
	if lo < 1 {
		lo = 1
	}
	if hi <= lo {
		if laps < 1 {
			return 0
		}
		return lo
	}
	return lo + rng.Intn(hi-lo)
}
