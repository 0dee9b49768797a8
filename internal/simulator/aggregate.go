package simulator

import (
	"encoding/json"
	"sort"

	"github.com/yourusername/pitwall/internal/models"
)

// CompetitorStats accumulates one driver's outcomes over many runs
type CompetitorStats struct {
	Driver      models.Driver `json:"driver"`
	Positions   map[int]int   `json:"positions"`
	DNFs        int           `json:"dnfs"`
	Wins        int           `json:"wins"`
	Podiums     int           `json:"podiums"`
	Points      float64       `json:"points"`
	PositionSum int           `json:"position_sum"`
}

// Aggregate is a commutative sum of race outcomes
type Aggregate struct {
	Runs   int
	podium int
	stats  map[string]*CompetitorStats
	order  []string
}

// NewAggregate creates an aggregate that reports drivers in the given order.
// Classified positions up to podiumCutoff count as podiums.
func NewAggregate(drivers []models.Driver, podiumCutoff int) *Aggregate {
	a := &Aggregate{podium: podiumCutoff, stats: make(map[string]*CompetitorStats, len(drivers))}
	for _, d := range drivers {
		a.entry(d)
	}
	return a
}

func (a *Aggregate) entry(d models.Driver) *CompetitorStats {
	if st, ok := a.stats[d.ID]; ok {
		return st
	}
	st := &CompetitorStats{Driver: d, Positions: make(map[int]int)}
	a.stats[d.ID] = st
	a.order = append(a.order, d.ID)
	return st
}

// Add folds one run's classification into the aggregate
func (a *Aggregate) Add(results []models.RaceResult) {
	a.Runs++
	for _, r := range results {
		st := a.entry(r.Driver)
		st.Positions[r.Position]++
		st.PositionSum += r.Position
		st.Points += r.Points
		if r.IsRetired() {
			st.DNFs++
		}
		// wins and podiums follow the classified position, retired or not
		if r.Position == 1 {
			st.Wins++
		}
		if r.Position <= a.podium {
			st.Podiums++
		}
	}
}

// Merge adds another aggregate's runs into this one
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	a.Runs += other.Runs
	for _, id := range other.order {
		src := other.stats[id]
		dst := a.entry(src.Driver)
		for pos, n := range src.Positions {
			dst.Positions[pos] += n
		}
		dst.DNFs += src.DNFs
		dst.Wins += src.Wins
		dst.Podiums += src.Podiums
		dst.Points += src.Points
		dst.PositionSum += src.PositionSum
	}
}

// Stats returns a copy of one driver's accumulated stats
func (a *Aggregate) Stats(driverID string) (CompetitorStats, bool) {
	st, ok := a.stats[driverID]
	if !ok {
		return CompetitorStats{}, false
	}
	out := *st
	out.Positions = make(map[int]int, len(st.Positions))
	for k, v := range st.Positions {
		out.Positions[k] = v
	}
	return out, true
}

// Prediction is one driver's derived forecast
type Prediction struct {
	Driver            models.Driver `json:"driver"`
	AveragePoints     float64       `json:"average_points"`
	AveragePosition   float64       `json:"average_position"`
	WinProbability    float64       `json:"win_probability"`
	PodiumProbability float64       `json:"podium_probability"`
	DNFProbability    float64       `json:"dnf_probability"`
	Positions         map[int]int   `json:"positions"`
}

// Predictions derives per-driver averages and probabilities, sorted by
// average points descending. Ties keep entry order.
func (a *Aggregate) Predictions() []Prediction {
	out := make([]Prediction, 0, len(a.order))
	n := float64(a.Runs)
	for _, id := range a.order {
		st := a.stats[id]
		p := Prediction{Driver: st.Driver, Positions: make(map[int]int, len(st.Positions))}
		for k, v := range st.Positions {
			p.Positions[k] = v
		}
		if a.Runs > 0 {
			p.AveragePoints = st.Points / n
			p.AveragePosition = float64(st.PositionSum) / n
			p.WinProbability = float64(st.Wins) / n
			p.PodiumProbability = float64(st.Podiums) / n
			p.DNFProbability = float64(st.DNFs) / n
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AveragePoints > out[j].AveragePoints
	})
	return out
}

// MarshalJSON exposes runs and per-driver stats in entry order
func (a *Aggregate) MarshalJSON() ([]byte, error) {
	stats := make([]*CompetitorStats, 0, len(a.order))
	for _, id := range a.order {
		stats = append(stats, a.stats[id])
	}
	return json.Marshal(struct {
		Runs  int                `json:"runs"`
		Stats []*CompetitorStats `json:"stats"`
	}{a.Runs, stats})
}
