package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRun is a persisted Monte Carlo forecast
type PredictionRun struct {
	ID         uuid.UUID            `db:"id" json:"id"`
	Season     int                  `db:"season" json:"season"`
	CircuitID  string               `db:"circuit_id" json:"circuit_id" validate:"required"`
	Mode       string               `db:"mode" json:"mode"`
	Runs       int                  `db:"runs" json:"runs" validate:"gte=0"`
	Seed       int64                `db:"seed" json:"seed"`
	Parameters SimulationParameters `db:"parameters" json:"parameters"`
	Entries    []PredictionEntry    `db:"-" json:"entries"`
	CreatedAt  time.Time            `db:"created_at" json:"created_at"`
}

// PredictionEntry is one driver's forecast within a run
type PredictionEntry struct {
	Rank              int     `db:"rank" json:"rank"`
	DriverID          string  `db:"driver_id" json:"driver_id"`
	DriverName        string  `db:"driver_name" json:"driver_name"`
	Team              string  `db:"team" json:"team"`
	AveragePoints     float64 `db:"average_points" json:"average_points"`
	AveragePosition   float64 `db:"average_position" json:"average_position"`
	WinProbability    float64 `db:"win_probability" json:"win_probability"`
	PodiumProbability float64 `db:"podium_probability" json:"podium_probability"`
	DNFProbability    float64 `db:"dnf_probability" json:"dnf_probability"`
}

// Favourite returns the top-ranked entry
func (p *PredictionRun) Favourite() (PredictionEntry, bool) {
	if len(p.Entries) == 0 {
		return PredictionEntry{}, false
	}
	return p.Entries[0], true
}
