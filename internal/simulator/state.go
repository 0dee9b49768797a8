package simulator

import (
	"errors"
	"time"

	"github.com/yourusername/pitwall/internal/models"
)

// RaceStatus is the lap engine state
type RaceStatus string

const (
	StatusRacing   RaceStatus = "racing"
	StatusComplete RaceStatus = "complete"
)

// ErrRaceComplete is returned when advancing a finished race
var ErrRaceComplete = errors.New("race already complete")

// PositionState is one entry in the running order. Index 0 of
// RaceState.Positions is the leader.
type PositionState struct {
	Driver         models.Driver `json:"driver"`
	Grid           int           `json:"grid"`
	Base           float64       `json:"base"`
	Score          float64       `json:"score"`
	Reliability    float64       `json:"-"`
	QualifyingTime time.Duration `json:"qualifying_time"`
	LapTime        time.Duration `json:"lap_time"`
	TotalTime      time.Duration `json:"total_time"`
	ScoreSum       float64       `json:"-"`
	LapsCompleted  int           `json:"laps_completed"`
	Active         bool          `json:"active"`
}

// AverageScore returns the mean lap score, or the current score before any lap
func (p PositionState) AverageScore() float64 {
	if p.LapsCompleted == 0 {
		return p.Score
	}
	return p.ScoreSum / float64(p.LapsCompleted)
}

// FastestLap records the quickest lap of the race
type FastestLap struct {
	Driver models.Driver `json:"driver"`
	Lap    int           `json:"lap"`
	Time   time.Duration `json:"time"`
}

// RaceState is the state of a single race, owned by one caller and advanced
// one lap at a time.
type RaceState struct {
	Circuit     models.Circuit              `json:"circuit"`
	Params      models.SimulationParameters `json:"params"`
	Positions   []PositionState             `json:"positions"`
	Retirements []Retirement                `json:"retirements"`
	FastestLap  *FastestLap                 `json:"fastest_lap,omitempty"`
	Lap         int                         `json:"lap"`
	Status      RaceStatus                  `json:"status"`

	// eligibleLaps caches the lap count over which per-race failures spread
	eligibleLaps int
}

// IsComplete reports whether the chequered flag has fallen
func (s *RaceState) IsComplete() bool {
	return s.Status == StatusComplete
}

// ActiveCount returns how many entries are still racing
func (s *RaceState) ActiveCount() int {
	n := 0
	for _, p := range s.Positions {
		if p.Active {
			n++
		}
	}
	return n
}

// Snapshot is a copy of the race state handed to lap observers
type Snapshot struct {
	Lap         int             `json:"lap"`
	TotalLaps   int             `json:"total_laps"`
	Positions   []PositionState `json:"positions"`
	Retirements []Retirement    `json:"retirements"`
	FastestLap  *FastestLap     `json:"fastest_lap,omitempty"`
}

// Snapshot copies the current order, retirements and fastest lap
func (s *RaceState) Snapshot() Snapshot {
	snap := Snapshot{
		Lap:         s.Lap,
		TotalLaps:   s.Circuit.Laps,
		Positions:   append([]PositionState(nil), s.Positions...),
		Retirements: append([]Retirement(nil), s.Retirements...),
	}
	if s.FastestLap != nil {
		fl := *s.FastestLap
		snap.FastestLap = &fl
	}
	return snap
}

// LapObserver receives a snapshot after every lap. A non-nil error stops the race.
type LapObserver func(Snapshot) error
