package models

import (
	"regexp"
	"strings"
)

// StatusFinished marks a classified finisher
const StatusFinished = "Finished"

var lappedStatus = regexp.MustCompile(`^\+\d+ Laps?$`)

// RaceResult represents one driver's classification in a race
type RaceResult struct {
	Position int     `json:"position" validate:"gte=1"`
	Driver   Driver  `json:"driver"`
	Time     *string `json:"time,omitempty"`
	Points   float64 `json:"points" validate:"gte=0"`
	Laps     int     `json:"laps" validate:"gte=0"`
	Status   string  `json:"status" validate:"required"`
	Grid     int     `json:"grid,omitempty"`
}

// IsFinished reports whether the driver took the chequered flag,
// either on the lead lap or lapped.
func (r RaceResult) IsFinished() bool {
	status := strings.TrimSpace(r.Status)
	return strings.Contains(status, StatusFinished) || lappedStatus.MatchString(status)
}

// IsRetired reports whether the result is a DNF
func (r RaceResult) IsRetired() bool {
	return !r.IsFinished()
}
