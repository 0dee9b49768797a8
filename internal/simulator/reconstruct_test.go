package simulator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/models"
)

func historicalRace() *models.Race {
	finished := "1:32:01.123"
	return &models.Race{
		Season:  2023,
		Name:    "Italian Grand Prix",
		Circuit: models.Circuit{ID: "monza", Laps: 51},
		Results: []models.RaceResult{
			{Position: 1, Driver: models.Driver{ID: "ver", Name: "Max Verstappen", Number: 1}, Time: &finished, Laps: 51, Status: "Finished"},
			{Position: 2, Driver: models.Driver{ID: "sar", Name: "Logan Sargeant", Number: 2}, Laps: 50, Status: "+1 Lap"},
			{Position: 3, Driver: models.Driver{ID: "pia", Name: "Oscar Piastri", Number: 81}, Laps: 30, Status: "Collision"},
			{Position: 4, Driver: models.Driver{ID: "alo", Name: "Fernando Alonso", Number: 14}, Laps: 12, Status: "Engine"},
			{Position: 5, Driver: models.Driver{ID: "str", Name: "Lance Stroll", Number: 18}, Laps: 0, Status: "Did not start"},
		},
	}
}

func TestReconstructIdentifiesRetirees(t *testing.T) {
	rets := Reconstruct(historicalRace(), NewSource(1), ReconstructOptions{})
	require.Len(t, rets, 3)

	byID := map[string]Retirement{}
	for _, r := range rets {
		byID[r.Driver.ID] = r
		assert.GreaterOrEqual(t, r.Lap, 1)
		assert.LessOrEqual(t, r.Lap, 51)
	}
	assert.Equal(t, IncidentRacing, byID["pia"].Kind)
	assert.Equal(t, IncidentMechanical, byID["alo"].Kind)
	assert.Equal(t, IncidentOther, byID["str"].Kind)
	assert.Equal(t, "Engine", byID["alo"].Description)

	for i := 1; i < len(rets); i++ {
		assert.LessOrEqual(t, rets[i-1].Lap, rets[i].Lap)
	}
}

func TestReconstructPrefersRecordedLaps(t *testing.T) {
	rets := Reconstruct(historicalRace(), NewSource(1), ReconstructOptions{PreferRecordedLaps: true})
	require.Len(t, rets, 3)

	byID := map[string]Retirement{}
	for _, r := range rets {
		byID[r.Driver.ID] = r
	}
	assert.Equal(t, 13, byID["alo"].Lap)
	assert.Equal(t, 31, byID["pia"].Lap)
	// no laps recorded, so the lap is synthesised
	assert.GreaterOrEqual(t, byID["str"].Lap, 1)

	lines := Narrate([]Retirement{byID["alo"]})
	assert.Equal(t, []string{"Lap 13: Fernando Alonso (#14) retired - Engine"}, lines)
}

func TestReconstructUsesResultsWhenCircuitLapsUnknown(t *testing.T) {
	race := historicalRace()
	race.Circuit.Laps = 0
	for i := 0; i < 50; i++ {
		for _, r := range Reconstruct(race, NewSource(int64(i+1)), ReconstructOptions{}) {
			assert.LessOrEqual(t, r.Lap, 51)
		}
	}
	assert.Nil(t, Reconstruct(nil, NewSource(1), ReconstructOptions{}))
}

func TestRetirementWeightCurve(t *testing.T) {
	total := 60
	assert.Equal(t, 0.2, RetirementWeight(1, total))
	assert.Equal(t, 0.2, RetirementWeight(60, total))
	assert.Equal(t, 0.5, RetirementWeight(10, total))
	assert.Equal(t, 1.0, RetirementWeight(30, total))
	assert.Equal(t, 0.5, RetirementWeight(50, total))
	assert.Zero(t, RetirementWeight(0, total))
	assert.Zero(t, RetirementWeight(61, total))
}

func TestSampleRetirementLapPeaksMidRace(t *testing.T) {
	const total, draws = 60, 30000
	rng := NewSource(21)
	var early, middle int
	for i := 0; i < draws; i++ {
		lap := SampleRetirementLap(total, rng)
		require.GreaterOrEqual(t, lap, 1)
		require.LessOrEqual(t, lap, total)
		switch {
		case lap <= 6:
			early++
		case lap > 20 && lap <= 26:
			middle++
		}
	}
	// same width windows, weights 0.2 vs 1.0
	assert.Greater(t, middle, 3*early)
	assert.Zero(t, SampleRetirementLap(0, rng))
}

func TestClassifyStatus(t *testing.T) {
	tests := map[string]IncidentKind{
		"Accident":         IncidentRacing,
		"Collision damage": IncidentRacing,
		"Spun off":         IncidentRacing,
		"Gearbox":          IncidentMechanical,
		"Power Unit":       IncidentMechanical,
		"Hydraulics":       IncidentMechanical,
		"Disqualified":     IncidentOther,
		"Withdrew":         IncidentOther,
	}
	for status, want := range tests {
		assert.Equal(t, want, ClassifyStatus(status), status)
	}
}
