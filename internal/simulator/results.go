package simulator

import (
	"sort"
	"time"

	"github.com/yourusername/pitwall/internal/models"
)

// Results ranks finishers in running order, then appends retirees with the
// longest-running retirees first.
func (s *Simulator) Results(state *RaceState) []models.RaceResult {
	reasons := make(map[string]string, len(state.Retirements))
	for _, r := range state.Retirements {
		reasons[r.Driver.ID] = r.Description
	}

	finishers := make([]PositionState, 0, len(state.Positions))
	var retirees []PositionState
	for _, p := range state.Positions {
		if p.Active {
			finishers = append(finishers, p)
		} else {
			retirees = append(retirees, p)
		}
	}
	sort.SliceStable(retirees, func(i, j int) bool {
		return retirees[i].LapsCompleted > retirees[j].LapsCompleted
	})

	results := make([]models.RaceResult, 0, len(state.Positions))
	var winnerTime, prev time.Duration
	for i, p := range finishers {
		pos := i + 1
		elapsed := s.perf.RaceTime(p.AverageScore(), p.LapsCompleted)
		if i > 0 && elapsed < prev+s.tuning.MinimumGap {
			elapsed = prev + s.tuning.MinimumGap
		}
		prev = elapsed

		var display string
		if i == 0 {
			winnerTime = elapsed
			display = FormatRaceTime(elapsed)
		} else {
			display = FormatGap(elapsed - winnerTime)
		}

		points := s.tuning.PointsFor(pos)
		if fl := state.FastestLap; fl != nil && fl.Driver.ID == p.Driver.ID && pos <= s.tuning.FastestLapCutoff {
			points += s.tuning.FastestLapBonus
		}

		results = append(results, models.RaceResult{
			Position: pos,
			Driver:   p.Driver,
			Time:     &display,
			Points:   float64(points),
			Laps:     p.LapsCompleted,
			Status:   models.StatusFinished,
			Grid:     p.Grid,
		})
	}

	for i, p := range retirees {
		status := reasons[p.Driver.ID]
		if status == "" {
			status = "Retired"
		}
		results = append(results, models.RaceResult{
			Position: len(finishers) + i + 1,
			Driver:   p.Driver,
			Points:   0,
			Laps:     p.LapsCompleted,
			Status:   status,
			Grid:     p.Grid,
		})
	}

	return results
}
