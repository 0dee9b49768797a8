package simulator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/pitwall/internal/models"
)

var racingStatusKeywords = []string{
	"accident", "collision", "crash", "spun", "damage", "puncture", "contact",
}

var mechanicalStatusKeywords = []string{
	"engine", "gearbox", "hydraulic", "brake", "electrical", "electronics",
	"power unit", "suspension", "fuel", "cooling", "overheating", "oil",
	"water", "transmission", "clutch", "exhaust", "turbo", "driveshaft",
	"mechanical", "wheel", "battery",
}

// ReconstructOptions tunes the historical replay heuristic
type ReconstructOptions struct {
	// PreferRecordedLaps uses laps completed + 1 as the retirement lap when
	// the classification carries a lap count below race distance.
	PreferRecordedLaps bool
}

// Reconstruct turns a final classification into a plausible retirement
// narrative. Retirement laps are synthesised from a curve that peaks in the
// middle third of the race and is lowest in the first and last 10%.
func Reconstruct(race *models.Race, rng Source, opts ReconstructOptions) []Retirement {
	if race == nil {
		return nil
	}
	total := raceDistance(race)

	var out []Retirement
	for _, r := range race.Results {
		if !r.IsRetired() {
			continue
		}
		lap := 0
		if opts.PreferRecordedLaps && r.Laps > 0 && r.Laps < total {
			lap = r.Laps + 1
		} else {
			lap = SampleRetirementLap(total, rng)
		}
		out = append(out, Retirement{
			Driver:      r.Driver,
			Lap:         lap,
			Position:    r.Position,
			Kind:        ClassifyStatus(r.Status),
			Description: r.Status,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Lap < out[j].Lap })
	return out
}

func raceDistance(race *models.Race) int {
	if race.Circuit.Laps > 0 {
		return race.Circuit.Laps
	}
	max := 0
	for _, r := range race.Results {
		if r.Laps > max {
			max = r.Laps
		}
	}
	return max
}

// RetirementWeight is the relative likelihood of retiring on lap of total
func RetirementWeight(lap, total int) float64 {
	if total <= 0 || lap < 1 || lap > total {
		return 0
	}
	frac := (float64(lap) - 0.5) / float64(total)
	switch {
	case frac < 0.1 || frac >= 0.9:
		return 0.2
	case frac >= 1.0/3.0 && frac < 2.0/3.0:
		return 1.0
	default:
		return 0.5
	}
}

// SampleRetirementLap draws a lap in [1,total] weighted by RetirementWeight
func SampleRetirementLap(total int, rng Source) int {
	if total <= 0 {
		return 0
	}
	sum := 0.0
	for lap := 1; lap <= total; lap++ {
		sum += RetirementWeight(lap, total)
	}
	target := rng.Float64() * sum
	for lap := 1; lap <= total; lap++ {
		target -= RetirementWeight(lap, total)
		if target < 0 {
			return lap
		}
	}
	return total
}

// ClassifyStatus maps a historical status string to an incident channel
func ClassifyStatus(status string) IncidentKind {
	s := strings.ToLower(status)
	for _, k := range racingStatusKeywords {
		if strings.Contains(s, k) {
			return IncidentRacing
		}
	}
	for _, k := range mechanicalStatusKeywords {
		if strings.Contains(s, k) {
			return IncidentMechanical
		}
	}
	return IncidentOther
}

// Narrate renders retirements as one line each
func Narrate(retirements []Retirement) []string {
	lines := make([]string, 0, len(retirements))
	for _, r := range retirements {
		lines = append(lines, fmt.Sprintf("Lap %d: %s (#%d) retired - %s", r.Lap, r.Driver.Name, r.Driver.Number, r.Description))
	}
	return lines
}
