package models

import (
	"time"
)

// Race represents a classified race event
type Race struct {
	Season  int          `json:"season"`
	Round   int          `json:"round"`
	Name    string       `json:"name"`
	Circuit Circuit      `json:"circuit"`
	Date    time.Time    `json:"date"`
	Results []RaceResult `json:"results"`
}

// Winner returns the classified winner, if any
func (r *Race) Winner() (RaceResult, bool) {
	for _, res := range r.Results {
		if res.Position == 1 {
			return res, true
		}
	}
	return RaceResult{}, false
}

// QualifyingSession holds the qualifying classification for an event
type QualifyingSession struct {
	Season  int                `json:"season"`
	Round   int                `json:"round"`
	Name    string             `json:"name"`
	Circuit Circuit            `json:"circuit"`
	Date    time.Time          `json:"date"`
	Results []QualifyingResult `json:"results"`
}

// QualifyingResult is one driver's qualifying classification
type QualifyingResult struct {
	Position int     `json:"position"`
	Driver   Driver  `json:"driver"`
	Q1       *string `json:"q1,omitempty"`
	Q2       *string `json:"q2,omitempty"`
	Q3       *string `json:"q3,omitempty"`
}

// BestTime returns the latest session time the driver set
func (q QualifyingResult) BestTime() *string {
	switch {
	case q.Q3 != nil:
		return q.Q3
	case q.Q2 != nil:
		return q.Q2
	default:
		return q.Q1
	}
}

// PracticeResult is one driver's classification in a practice session
type PracticeResult struct {
	Position int     `json:"position"`
	Driver   Driver  `json:"driver"`
	Time     *string `json:"time,omitempty"`
	Laps     int     `json:"laps"`
}
