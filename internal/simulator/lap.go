package simulator

import "github.com/sirupsen/logrus"

// Advance runs one lap: resample active scores, resolve overtakes front to
// back, check incidents after the warm-up, then update lap times and the
// fastest lap.
func (s *Simulator) Advance(state *RaceState, rng Source) error {
	if state.IsComplete() {
		return ErrRaceComplete
	}
	state.Lap++
	lap := state.Lap
	positions := state.Positions

	for i := range positions {
		if positions[i].Active {
			positions[i].Score = s.perf.Lap(positions[i].Base, state.Params, rng)
		}
	}

	s.resolveOvertakes(positions, rng)

	if state.Params.RandomIncidents && lap > s.tuning.WarmupLaps {
		for _, r := range s.incidents.Check(state, rng) {
			s.logger.WithFields(logrus.Fields{
				"driver":      r.Driver.Code,
				"lap":         r.Lap,
				"kind":        r.Kind,
				"description": r.Description,
			}).Debug("Driver retired")
		}
	}

	for i := range positions {
		p := &positions[i]
		if !p.Active {
			continue
		}
		p.LapTime = s.perf.LapTime(p.Score, s.tuning.LapTimeSpread)
		p.TotalTime += p.LapTime
		p.ScoreSum += p.Score
		p.LapsCompleted++
		if state.FastestLap == nil || p.LapTime < state.FastestLap.Time {
			state.FastestLap = &FastestLap{Driver: p.Driver, Lap: lap, Time: p.LapTime}
		}
	}

	if lap >= state.Circuit.Laps {
		state.Status = StatusComplete
	}
	return nil
}

// resolveOvertakes gives each adjacent pair of active cars one attempt per lap
func (s *Simulator) resolveOvertakes(positions []PositionState, rng Source) {
	for i := 1; i < len(positions); i++ {
		ahead, behind := positions[i-1], positions[i]
		if !ahead.Active || !behind.Active {
			continue
		}
		chance := (behind.Score - ahead.Score) * s.tuning.OvertakeFactor
		if chance > 0 && rng.Float64() < chance {
			positions[i-1], positions[i] = behind, ahead
		}
	}
}
