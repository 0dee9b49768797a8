package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/config"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/simulator"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testDefaults() config.SimulationConfig {
	return config.SimulationConfig{
		ReliabilityFactor: 0.95,
		WeatherFactor:     1.0,
		RandomIncidents:   true,
		Runs:              10,
		Workers:           2,
		Seed:              7,
		Mode:              "lap",
	}
}

func newTestSimulator(t *testing.T, cat *catalog.Catalog) *simulator.Simulator {
	t.Helper()
	sim, err := simulator.NewSimulator(cat, simulator.DefaultTuning(), quietLogger())
	require.NoError(t, err)
	return sim
}

type memoryPredictionRepo struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*models.PredictionRun
	err  error
}

func newMemoryPredictionRepo() *memoryPredictionRepo {
	return &memoryPredictionRepo{runs: make(map[uuid.UUID]*models.PredictionRun)}
}

func (m *memoryPredictionRepo) Create(_ context.Context, run *models.PredictionRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.runs[run.ID] = run
	return nil
}

func (m *memoryPredictionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PredictionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return run, nil
}

func (m *memoryPredictionRepo) ListRecent(_ context.Context, season int, circuitID string, _ int) ([]*models.PredictionRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PredictionRun
	for _, r := range m.runs {
		if (season == 0 || r.Season == season) && (circuitID == "" || r.CircuitID == circuitID) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryPredictionRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.runs, id)
	return nil
}

func TestSimulateLapMode(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	laps := 0
	outcome, err := svc.Simulate(context.Background(), SimulationRequest{GrandPrix: "Monaco", Seed: 11}, func(snap simulator.Snapshot) error {
		laps++
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, simulator.ModeLap, outcome.Mode)
	assert.Equal(t, outcome.Circuit.Laps, laps)
	require.Len(t, outcome.Results, len(cat.Drivers()))
	for i, r := range outcome.Results {
		assert.Equal(t, i+1, r.Position)
	}
}

func TestSimulateQuickMode(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	outcome, err := svc.Simulate(context.Background(), SimulationRequest{GrandPrix: "silverstone", Mode: "quick", Seed: 3}, nil)
	require.NoError(t, err)
	assert.Equal(t, simulator.ModeQuick, outcome.Mode)
	assert.Nil(t, outcome.FastestLap)
	assert.Len(t, outcome.Results, len(cat.Drivers()))
}

func TestSimulateIsReproducible(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	req := SimulationRequest{GrandPrix: "monza", Seed: 99}
	a, err := svc.Simulate(context.Background(), req, nil)
	require.NoError(t, err)
	b, err := svc.Simulate(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Equal(t, a.Results, b.Results)
}

func TestSimulateUnknownCircuit(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	_, err = svc.Simulate(context.Background(), SimulationRequest{GrandPrix: "Atlantis"}, nil)
	assert.ErrorIs(t, err, catalog.ErrUnknownCircuit)
}

func TestSimulateStopsOnCancel(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	seen := 0
	_, err = svc.Simulate(ctx, SimulationRequest{GrandPrix: "monza", Seed: 5}, func(simulator.Snapshot) error {
		seen++
		if seen == 3 {
			cancel()
		}
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, seen)
}

func TestSimulateRejectsUnknownMode(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	laps := 0
	outcome, err := svc.Simulate(context.Background(), SimulationRequest{GrandPrix: "monza", Mode: "bogus"}, func(simulator.Snapshot) error {
		laps++
		return nil
	})
	assert.ErrorIs(t, err, simulator.ErrUnknownMode)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
	assert.Nil(t, outcome)
	assert.Zero(t, laps)
}

func TestSimulateInvalidParameters(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewSimulationService(newTestSimulator(t, cat), cat, testDefaults(), quietLogger())
	require.NoError(t, err)

	params := models.SimulationParameters{ReliabilityFactor: 0, WeatherFactor: 1}
	_, err = svc.Simulate(context.Background(), SimulationRequest{GrandPrix: "monza", Parameters: &params}, nil)
	assert.ErrorIs(t, err, models.ErrInvalidParameters)
}

func TestPredictPersists(t *testing.T) {
	cat := catalog.Default()
	repo := newMemoryPredictionRepo()
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, repo, PredictionOptions{Defaults: testDefaults(), Season: 2024}, quietLogger())
	require.NoError(t, err)

	outcome, err := svc.Predict(context.Background(), PredictionRequest{GrandPrix: "British", Runs: 20, Persist: true}, nil)
	require.NoError(t, err)
	require.True(t, outcome.Stored)

	run := outcome.Run
	assert.Equal(t, 2024, run.Season)
	assert.Equal(t, "silverstone", run.CircuitID)
	assert.Equal(t, 20, run.Runs)
	assert.Equal(t, int64(7), run.Seed)
	require.Len(t, run.Entries, len(cat.Drivers()))
	for i, e := range run.Entries {
		assert.Equal(t, i+1, e.Rank)
		assert.NotEmpty(t, e.Team)
		if i > 0 {
			assert.LessOrEqual(t, e.AveragePoints, run.Entries[i-1].AveragePoints)
		}
	}

	stored, err := svc.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, stored)

	recent, err := svc.Recent(context.Background(), 2024, "British Grand Prix", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestPredictSeedIsReproducible(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, nil, PredictionOptions{Defaults: testDefaults()}, quietLogger())
	require.NoError(t, err)

	req := PredictionRequest{GrandPrix: "monza", Runs: 16, Seed: 1234}
	a, err := svc.Predict(context.Background(), req, nil)
	require.NoError(t, err)
	req.Workers = 4
	b, err := svc.Predict(context.Background(), req, nil)
	require.NoError(t, err)

	require.Len(t, b.Run.Entries, len(a.Run.Entries))
	for i := range a.Run.Entries {
		assert.Equal(t, a.Run.Entries[i].DriverID, b.Run.Entries[i].DriverID)
		assert.InDelta(t, a.Run.Entries[i].AveragePoints, b.Run.Entries[i].AveragePoints, 1e-9)
	}
}

func TestPredictRunCap(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, nil, PredictionOptions{Defaults: testDefaults(), MaxRuns: 50}, quietLogger())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), PredictionRequest{GrandPrix: "monza", Runs: 51}, nil)
	assert.ErrorIs(t, err, ErrTooManyRuns)
}

func TestPredictWithoutRepository(t *testing.T) {
	cat := catalog.Default()
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, nil, PredictionOptions{Defaults: testDefaults()}, quietLogger())
	require.NoError(t, err)
	assert.False(t, svc.CanPersist())

	outcome, err := svc.Predict(context.Background(), PredictionRequest{GrandPrix: "monza", Runs: 5, Persist: true}, nil)
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
	require.NotNil(t, outcome)
	assert.False(t, outcome.Stored)

	_, err = svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPersistenceDisabled)
}

func TestPredictStoreFailure(t *testing.T) {
	cat := catalog.Default()
	repo := newMemoryPredictionRepo()
	repo.err = errors.New("connection refused")
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, repo, PredictionOptions{Defaults: testDefaults()}, quietLogger())
	require.NoError(t, err)

	_, err = svc.Predict(context.Background(), PredictionRequest{GrandPrix: "monza", Runs: 5, Persist: true}, nil)
	assert.ErrorContains(t, err, "connection refused")
}

func TestPredictCancelledReturnsPartial(t *testing.T) {
	cat := catalog.Default()
	repo := newMemoryPredictionRepo()
	svc, err := NewPredictionService(newTestSimulator(t, cat), cat, repo, PredictionOptions{Defaults: testDefaults()}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	outcome, err := svc.Predict(ctx, PredictionRequest{GrandPrix: "monza", Runs: 100, Persist: true}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, outcome)
	assert.Less(t, outcome.Result.Runs, 100)
	assert.False(t, outcome.Stored)
	assert.Empty(t, repo.runs)
}

type fakeLoader struct {
	race       *models.Race
	qualifying *models.QualifyingSession
	practice   int
}

func (f *fakeLoader) LoadRace(_ context.Context, _ int, _ string) (*models.Race, error) {
	if f.race == nil {
		return nil, models.ErrNotFound
	}
	return f.race, nil
}

func (f *fakeLoader) LoadQualifying(_ context.Context, _ int, _ string) (*models.QualifyingSession, error) {
	if f.qualifying == nil {
		return nil, models.ErrNotFound
	}
	return f.qualifying, nil
}

func (f *fakeLoader) LoadPractice(_ context.Context, _ int, _ string, session int) ([]models.PracticeResult, error) {
	f.practice = session
	return nil, models.ErrSessionUnavailable
}

func historicalRace() *models.Race {
	finish := "1:30:00.000"
	return &models.Race{
		Season:  2023,
		Round:   1,
		Name:    "Bahrain Grand Prix",
		Circuit: models.Circuit{ID: "bahrain", Name: "Bahrain International Circuit", Laps: 57},
		Results: []models.RaceResult{
			{Position: 1, Driver: models.Driver{ID: "max_verstappen", Name: "Max Verstappen", Number: 1}, Time: &finish, Points: 25, Laps: 57, Status: "Finished"},
			{Position: 2, Driver: models.Driver{ID: "perez", Name: "Sergio Perez", Number: 11}, Points: 18, Laps: 57, Status: "Finished"},
			{Position: 3, Driver: models.Driver{ID: "alonso", Name: "Fernando Alonso", Number: 14}, Points: 15, Laps: 56, Status: "+1 Lap"},
			{Position: 19, Driver: models.Driver{ID: "leclerc", Name: "Charles Leclerc", Number: 16}, Laps: 39, Status: "Engine"},
			{Position: 20, Driver: models.Driver{ID: "piastri", Name: "Oscar Piastri", Number: 81}, Laps: 13, Status: "Collision"},
		},
	}
}

func TestParseSession(t *testing.T) {
	tests := []struct {
		in   string
		want Session
	}{
		{"race", Session{Kind: SessionRace}},
		{"RACE", Session{Kind: SessionRace}},
		{"qualifying", Session{Kind: SessionQualifying}},
		{"practice", Session{Kind: SessionPractice, Practice: 1}},
		{"fp1", Session{Kind: SessionPractice, Practice: 1}},
		{"practice2", Session{Kind: SessionPractice, Practice: 2}},
		{"FP3", Session{Kind: SessionPractice, Practice: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSession(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSession("sprint")
	assert.ErrorIs(t, err, ErrUnknownSession)
	assert.ErrorContains(t, err, "race, qualifying, practice, fp1, fp2, fp3")
}

func TestReplayRace(t *testing.T) {
	svc := NewHistoricalService(&fakeLoader{race: historicalRace()}, simulator.ReconstructOptions{PreferRecordedLaps: true}, quietLogger())

	replay, err := svc.Replay(context.Background(), 2023, "bahrain", "race", 42)
	require.NoError(t, err)
	require.NotNil(t, replay.Race)
	require.Len(t, replay.Retirements, 2)

	assert.Equal(t, "piastri", replay.Retirements[0].Driver.ID)
	assert.Equal(t, 14, replay.Retirements[0].Lap)
	assert.Equal(t, simulator.IncidentRacing, replay.Retirements[0].Kind)
	assert.Equal(t, "leclerc", replay.Retirements[1].Driver.ID)
	assert.Equal(t, 40, replay.Retirements[1].Lap)
	assert.Equal(t, simulator.IncidentMechanical, replay.Retirements[1].Kind)
	assert.Equal(t, "Lap 14: Oscar Piastri (#81) retired - Collision", replay.Narrative[0])
}

func TestReplayRaceSynthesizedLaps(t *testing.T) {
	svc := NewHistoricalService(&fakeLoader{race: historicalRace()}, simulator.ReconstructOptions{}, quietLogger())

	replay, err := svc.Replay(context.Background(), 2023, "bahrain", "race", 42)
	require.NoError(t, err)
	require.Len(t, replay.Retirements, 2)
	for _, r := range replay.Retirements {
		assert.GreaterOrEqual(t, r.Lap, 1)
		assert.LessOrEqual(t, r.Lap, 57)
	}
	assert.LessOrEqual(t, replay.Retirements[0].Lap, replay.Retirements[1].Lap)
}

func TestReplayQualifyingAndPractice(t *testing.T) {
	loader := &fakeLoader{qualifying: &models.QualifyingSession{Season: 2023, Name: "Bahrain Grand Prix"}}
	svc := NewHistoricalService(loader, simulator.ReconstructOptions{}, quietLogger())

	replay, err := svc.Replay(context.Background(), 2023, "bahrain", "qualifying", 0)
	require.NoError(t, err)
	assert.NotNil(t, replay.Qualifying)

	_, err = svc.Replay(context.Background(), 2023, "bahrain", "fp2", 0)
	assert.ErrorIs(t, err, models.ErrSessionUnavailable)
	assert.Equal(t, 2, loader.practice)
}

func TestReplayMissingRace(t *testing.T) {
	svc := NewHistoricalService(&fakeLoader{}, simulator.ReconstructOptions{}, quietLogger())
	_, err := svc.Replay(context.Background(), 2023, "bahrain", "race", 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
