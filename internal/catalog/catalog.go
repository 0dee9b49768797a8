// Package catalog holds the static reference data a simulation draws on:
// drivers with their skill coefficients, teams and circuits.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/pitwall/internal/models"
)

// Defaults applied when a driver or team is missing from the catalog
const (
	DefaultSkill           = 0.90
	DefaultTeamPerformance = 0.85
	DefaultReliability     = 0.92
)

// Lookup errors
var (
	ErrUnknownCircuit = errors.New("unknown circuit")
	ErrUnknownDriver  = errors.New("unknown driver")
	ErrInvalidEntry   = errors.New("invalid catalog entry")
)

// DriverProfile pairs a driver with their skill coefficient
type DriverProfile struct {
	Driver models.Driver
	Skill  float64
}

// Catalog is an immutable set of drivers, teams and circuits keyed by id
type Catalog struct {
	drivers  []models.Driver
	skill    map[string]float64
	teams    map[string]models.Team
	circuits map[string]models.Circuit
}

// New builds a catalog, rejecting duplicate ids and coefficients outside (0,1]
func New(teams []models.Team, drivers []DriverProfile, circuits []models.Circuit) (*Catalog, error) {
	c := &Catalog{
		drivers:  make([]models.Driver, 0, len(drivers)),
		skill:    make(map[string]float64, len(drivers)),
		teams:    make(map[string]models.Team, len(teams)),
		circuits: make(map[string]models.Circuit, len(circuits)),
	}

	for _, t := range teams {
		if t.ID == "" {
			return nil, fmt.Errorf("%w: team id is required", ErrInvalidEntry)
		}
		if _, ok := c.teams[t.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate team %q", ErrInvalidEntry, t.ID)
		}
		if !validCoefficient(t.Performance) || !validCoefficient(t.Reliability) {
			return nil, fmt.Errorf("%w: team %q coefficients must be in (0,1]", ErrInvalidEntry, t.ID)
		}
		c.teams[t.ID] = t
	}

	for _, p := range drivers {
		d := p.Driver
		if d.ID == "" {
			return nil, fmt.Errorf("%w: driver id is required", ErrInvalidEntry)
		}
		if _, ok := c.skill[d.ID]; ok {
			return nil, fmt.Errorf("%w: duplicate driver %q", ErrInvalidEntry, d.ID)
		}
		if !validCoefficient(p.Skill) {
			return nil, fmt.Errorf("%w: driver %q skill must be in (0,1]", ErrInvalidEntry, d.ID)
		}
		if t, ok := c.teams[d.TeamID]; ok && d.Team == "" {
			d.Team = t.Name
		}
		c.drivers = append(c.drivers, d)
		c.skill[d.ID] = p.Skill
	}

	for _, circ := range circuits {
		if circ.ID == "" {
			return nil, fmt.Errorf("%w: circuit id is required", ErrInvalidEntry)
		}
		if circ.Laps < 0 {
			return nil, fmt.Errorf("%w: circuit %q has negative lap count", ErrInvalidEntry, circ.ID)
		}
		c.circuits[circ.ID] = circ
	}

	return c, nil
}

func validCoefficient(v float64) bool {
	return v > 0 && v <= 1
}

// Drivers returns the entry list in catalog order
func (c *Catalog) Drivers() []models.Driver {
	out := make([]models.Driver, len(c.drivers))
	copy(out, c.drivers)
	return out
}

// Driver finds a driver by id, short code or car number
func (c *Catalog) Driver(key string) (models.Driver, error) {
	key = strings.TrimSpace(key)
	for _, d := range c.drivers {
		if d.ID == key || strings.EqualFold(d.Code, key) || fmt.Sprint(d.Number) == key {
			return d, nil
		}
	}
	return models.Driver{}, fmt.Errorf("%w: %s", ErrUnknownDriver, key)
}

// Skill returns the driver's skill coefficient or DefaultSkill
func (c *Catalog) Skill(driverID string) float64 {
	if s, ok := c.skill[driverID]; ok {
		return s
	}
	return DefaultSkill
}

// Team returns the team record, falling back to default coefficients
func (c *Catalog) Team(teamID string) models.Team {
	if t, ok := c.teams[teamID]; ok {
		return t
	}
	return models.Team{
		ID:          teamID,
		Name:        teamID,
		Performance: DefaultTeamPerformance,
		Reliability: DefaultReliability,
	}
}

// TeamPerformance returns the team's performance coefficient
func (c *Catalog) TeamPerformance(teamID string) float64 {
	return c.Team(teamID).Performance
}

// Reliability returns the team's base reliability
func (c *Catalog) Reliability(teamID string) float64 {
	return c.Team(teamID).Reliability
}

// Teams returns all known teams sorted by id
func (c *Catalog) Teams() []models.Team {
	out := make([]models.Team, 0, len(c.teams))
	for _, t := range c.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Circuits returns all circuits sorted by id
func (c *Catalog) Circuits() []models.Circuit {
	out := make([]models.Circuit, 0, len(c.circuits))
	for _, circ := range c.circuits {
		out = append(out, circ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LookupCircuit resolves a grand prix name or alias to a circuit
func (c *Catalog) LookupCircuit(name string) (models.Circuit, error) {
	id := NormalizeGPName(name)
	if circ, ok := c.circuits[id]; ok {
		return circ, nil
	}
	return models.Circuit{}, fmt.Errorf("%w: %s", ErrUnknownCircuit, name)
}
