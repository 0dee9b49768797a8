package models

// Driver represents a single competitor entered in a race
type Driver struct {
	ID     string `json:"id" validate:"required"`
	Code   string `json:"code"`
	Name   string `json:"name" validate:"required"`
	TeamID string `json:"team_id"`
	Team   string `json:"team"`
	Number int    `json:"number"`
}

// Team holds the car-level coefficients shared by both of its drivers
type Team struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Performance float64 `json:"performance" validate:"gt=0,lte=1"`
	Reliability float64 `json:"reliability" validate:"gt=0,lte=1"`
}

// Circuit represents a race venue
type Circuit struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Country  string  `json:"country"`
	City     string  `json:"city"`
	LengthKM float64 `json:"length_km"`
	Laps     int     `json:"laps" validate:"gte=0"`
}

// DistanceKM returns the full race distance
func (c Circuit) DistanceKM() float64 {
	return c.LengthKM * float64(c.Laps)
}
