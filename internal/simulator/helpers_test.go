package simulator

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestSimulator(t *testing.T, ratings Ratings, tuning Tuning) *Simulator {
	t.Helper()
	sim, err := NewSimulator(ratings, tuning, quietLogger())
	require.NoError(t, err)
	return sim
}

// bulletproofCatalog has three drivers in a team that never fails
func bulletproofCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(
		[]models.Team{{ID: "iron", Name: "Iron Works", Performance: 0.95, Reliability: 1.0}},
		[]catalog.DriverProfile{
			{Driver: models.Driver{ID: "a", Code: "AAA", Name: "Driver A", TeamID: "iron", Number: 1}, Skill: 0.97},
			{Driver: models.Driver{ID: "b", Code: "BBB", Name: "Driver B", TeamID: "iron", Number: 2}, Skill: 0.93},
			{Driver: models.Driver{ID: "c", Code: "CCC", Name: "Driver C", TeamID: "iron", Number: 3}, Skill: 0.90},
		},
		[]models.Circuit{{ID: "short", Name: "Short Track", Laps: 10, LengthKM: 3}},
	)
	require.NoError(t, err)
	return c
}

func testCircuit(laps int) models.Circuit {
	return models.Circuit{ID: "test", Name: "Test Circuit", Country: "Nowhere", City: "Nowhere", LengthKM: 5, Laps: laps}
}

// scriptedSource replays fixed uniform draws and returns zero Gaussian noise
type scriptedSource struct {
	floats []float64
	i      int
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[s.i%len(s.floats)]
	s.i++
	return v
}

func (s *scriptedSource) NormFloat64() float64 { return 0 }

func (s *scriptedSource) Intn(n int) int { return 0 }
