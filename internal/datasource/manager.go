package datasource

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/models"
)

// FirstSeason is the first world championship season
const FirstSeason = 1950

// DefaultPreviousSeasons is how many seasons before the current one an
// update refreshes when none are named
const DefaultPreviousSeasons = 2

// Manager loads sessions from the cache, then the local store, then the
// remote source, persisting anything it had to fetch
type Manager struct {
	source        DataSource
	store         *FileStore
	cache         *Cache
	currentSeason int
	logger        *logger.DataLogger
}

// UpdateReport summarizes a data refresh
type UpdateReport struct {
	Seasons  []int         `json:"seasons"`
	Races    int           `json:"races"`
	Skipped  int           `json:"skipped"`
	Failures int           `json:"failures"`
	Duration time.Duration `json:"duration"`
}

// NewManager creates a data manager. cache may be nil.
func NewManager(source DataSource, store *FileStore, cache *Cache, currentSeason int, log *logger.DataLogger) *Manager {
	return &Manager{
		source:        source,
		store:         store,
		cache:         cache,
		currentSeason: currentSeason,
		logger:        log,
	}
}

// CurrentSeason returns the most recent season the manager knows about
func (m *Manager) CurrentSeason() int {
	return m.currentSeason
}

// LoadRace returns the race classification for a season and grand prix name
func (m *Manager) LoadRace(ctx context.Context, season int, gp string) (*models.Race, error) {
	id := catalog.NormalizeGPName(gp)

	if m.cache != nil {
		if race, ok := m.cache.Race(season, id); ok {
			m.debugCache(fmt.Sprintf("race:%d:%s", season, id), true)
			return race, nil
		}
		m.debugCache(fmt.Sprintf("race:%d:%s", season, id), false)
	}

	race, err := m.store.LoadRace(season, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		race, err = m.source.FetchRace(ctx, season, id)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve race data for %s %d: %w", gp, season, err)
		}
		race.Circuit.ID = id
		n, err := m.store.SaveRace(race)
		if err != nil {
			return nil, err
		}
		m.debugStored(m.store.racePath(season, id), n)
	}

	if m.cache != nil {
		m.cache.SetRace(race)
	}
	return race, nil
}

// LoadQualifying returns the qualifying classification for a season and grand prix name
func (m *Manager) LoadQualifying(ctx context.Context, season int, gp string) (*models.QualifyingSession, error) {
	id := catalog.NormalizeGPName(gp)

	if m.cache != nil {
		if session, ok := m.cache.Qualifying(season, id); ok {
			m.debugCache(fmt.Sprintf("qualifying:%d:%s", season, id), true)
			return session, nil
		}
		m.debugCache(fmt.Sprintf("qualifying:%d:%s", season, id), false)
	}

	session, err := m.store.LoadQualifying(season, id)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		session, err = m.source.FetchQualifying(ctx, season, id)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve qualifying data for %s %d: %w", gp, season, err)
		}
		session.Circuit.ID = id
		n, err := m.store.SaveQualifying(session)
		if err != nil {
			return nil, err
		}
		m.debugStored(m.store.qualifyingPath(season, id), n)
	}

	if m.cache != nil {
		m.cache.SetQualifying(session)
	}
	return session, nil
}

// LoadPractice always fails: the results source does not publish practice sessions
func (m *Manager) LoadPractice(_ context.Context, season int, gp string, session int) ([]models.PracticeResult, error) {
	if session < 1 || session > 3 {
		return nil, fmt.Errorf("invalid practice session number: %d", session)
	}
	return nil, fmt.Errorf("%w: FP%d for %s %d is not published by %s",
		models.ErrSessionUnavailable, session, gp, season, m.source.Name())
}

// ListAvailable lists stored seasons and races. A season of 0 lists everything.
func (m *Manager) ListAvailable(season int) ([]SeasonListing, error) {
	return m.store.List(season)
}

// Update refreshes the calendar and race results of each season
func (m *Manager) Update(ctx context.Context, seasons []int) (*UpdateReport, error) {
	start := time.Now()
	report := &UpdateReport{Seasons: seasons}

	for _, season := range seasons {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		circuits, err := m.source.FetchCircuits(ctx, season)
		if err != nil {
			report.Failures++
			continue
		}
		if _, err := m.store.SaveSeason(season, circuits); err != nil {
			return report, err
		}

		for _, circuit := range circuits {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			race, err := m.source.FetchRace(ctx, season, circuit.ID)
			if err != nil {
				// races later in a running season have no results yet
				if errors.Is(err, models.ErrNotFound) {
					report.Skipped++
				} else {
					report.Failures++
				}
				continue
			}
			race.Circuit.ID = circuit.ID
			if _, err := m.store.SaveRace(race); err != nil {
				return report, err
			}
			if m.cache != nil {
				m.cache.SetRace(race)
			}
			report.Races++
		}
	}

	report.Duration = time.Since(start)
	if m.logger != nil {
		m.logger.LogUpdateCompleted(seasons, report.Races, report.Failures, float64(report.Duration.Milliseconds()))
	}
	return report, nil
}

// ParseSeasons resolves which seasons an update covers. Explicit seasons win,
// then all (FirstSeason through current), then the previous N plus current.
func ParseSeasons(explicit []int, previous int, all bool, current int) ([]int, error) {
	var seasons []int
	switch {
	case len(explicit) > 0:
		seen := make(map[int]bool)
		for _, s := range explicit {
			if s < FirstSeason || s > current {
				return nil, fmt.Errorf("season %d outside %d-%d", s, FirstSeason, current)
			}
			if !seen[s] {
				seen[s] = true
				seasons = append(seasons, s)
			}
		}
		sort.Ints(seasons)
	case all:
		for s := FirstSeason; s <= current; s++ {
			seasons = append(seasons, s)
		}
	default:
		if previous < 0 {
			return nil, fmt.Errorf("previous seasons cannot be negative")
		}
		from := current - previous
		if from < FirstSeason {
			from = FirstSeason
		}
		for s := from; s <= current; s++ {
			seasons = append(seasons, s)
		}
	}
	return seasons, nil
}

func (m *Manager) debugCache(key string, hit bool) {
	if m.logger != nil {
		m.logger.LogCacheLookup(key, hit)
	}
}

func (m *Manager) debugStored(path string, n int) {
	if m.logger != nil {
		m.logger.LogStored(path, n)
	}
}
