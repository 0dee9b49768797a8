package datasource

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/pitwall/internal/models"
)

// FileStore persists historical data as JSON files under a directory
type FileStore struct {
	dir string
}

// SeasonListing lists the grands prix stored for one season
type SeasonListing struct {
	Season     int      `json:"season"`
	GrandsPrix []string `json:"grands_prix"`
}

// NewFileStore creates a store rooted at dir
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the store's root directory
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) racePath(season int, circuitID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("race_%d_%s.json", season, circuitID))
}

func (s *FileStore) qualifyingPath(season int, circuitID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("qualifying_%d_%s.json", season, circuitID))
}

func (s *FileStore) seasonPath(season int) string {
	return filepath.Join(s.dir, fmt.Sprintf("season_%d.json", season))
}

// SaveRace writes a race classification and returns the bytes written
func (s *FileStore) SaveRace(race *models.Race) (int, error) {
	return s.write(s.racePath(race.Season, race.Circuit.ID), race)
}

// LoadRace reads a stored race classification
func (s *FileStore) LoadRace(season int, circuitID string) (*models.Race, error) {
	var race models.Race
	if err := s.read(s.racePath(season, circuitID), &race); err != nil {
		return nil, err
	}
	return &race, nil
}

// SaveQualifying writes a qualifying classification and returns the bytes written
func (s *FileStore) SaveQualifying(session *models.QualifyingSession) (int, error) {
	return s.write(s.qualifyingPath(session.Season, session.Circuit.ID), session)
}

// LoadQualifying reads a stored qualifying classification
func (s *FileStore) LoadQualifying(season int, circuitID string) (*models.QualifyingSession, error) {
	var session models.QualifyingSession
	if err := s.read(s.qualifyingPath(season, circuitID), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SaveSeason writes a season's calendar and returns the bytes written
func (s *FileStore) SaveSeason(season int, circuits []models.Circuit) (int, error) {
	return s.write(s.seasonPath(season), circuits)
}

// LoadSeason reads a stored season calendar
func (s *FileStore) LoadSeason(season int) ([]models.Circuit, error) {
	var circuits []models.Circuit
	if err := s.read(s.seasonPath(season), &circuits); err != nil {
		return nil, err
	}
	return circuits, nil
}

// List catalogs stored seasons and races. A season of 0 lists everything.
func (s *FileStore) List(season int) ([]SeasonListing, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	seasons := make(map[int][]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		base := strings.TrimSuffix(name, ".json")

		switch {
		case strings.HasPrefix(base, "season_"):
			year, err := strconv.Atoi(strings.TrimPrefix(base, "season_"))
			if err != nil || year <= 0 || (season != 0 && year != season) {
				continue
			}
			if _, ok := seasons[year]; !ok {
				seasons[year] = nil
			}
		case strings.HasPrefix(base, "race_"):
			parts := strings.SplitN(strings.TrimPrefix(base, "race_"), "_", 2)
			if len(parts) != 2 {
				continue
			}
			year, err := strconv.Atoi(parts[0])
			if err != nil || (season != 0 && year != season) {
				continue
			}
			seasons[year] = append(seasons[year], parts[1])
		}
	}

	listings := make([]SeasonListing, 0, len(seasons))
	for year, gps := range seasons {
		sort.Strings(gps)
		listings = append(listings, SeasonListing{Season: year, GrandsPrix: gps})
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].Season < listings[j].Season })
	return listings, nil
}

func (s *FileStore) write(path string, v interface{}) (int, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return len(data), nil
}

func (s *FileStore) read(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", models.ErrNotFound, filepath.Base(path))
		}
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
