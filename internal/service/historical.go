package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pitwall/internal/logger"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/simulator"
)

// ErrUnknownSession is returned for session names that cannot be replayed
var ErrUnknownSession = errors.New("unknown session type")

// SessionKind identifies a race weekend session
type SessionKind string

const (
	SessionRace       SessionKind = "race"
	SessionQualifying SessionKind = "qualifying"
	SessionPractice   SessionKind = "practice"
)

// Session is a parsed session selector. Practice is 1-3 for practice sessions.
type Session struct {
	Kind     SessionKind `json:"kind"`
	Practice int         `json:"practice,omitempty"`
}

func (s Session) String() string {
	if s.Kind == SessionPractice {
		return fmt.Sprintf("fp%d", s.Practice)
	}
	return string(s.Kind)
}

// ParseSession accepts race, qualifying, practice, fp1-fp3 and practice1-3,
// case-insensitively
func ParseSession(name string) (Session, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "race":
		return Session{Kind: SessionRace}, nil
	case "qualifying":
		return Session{Kind: SessionQualifying}, nil
	case "practice", "fp1", "practice1":
		return Session{Kind: SessionPractice, Practice: 1}, nil
	case "fp2", "practice2":
		return Session{Kind: SessionPractice, Practice: 2}, nil
	case "fp3", "practice3":
		return Session{Kind: SessionPractice, Practice: 3}, nil
	default:
		return Session{}, fmt.Errorf("%w: %s. Valid options are race, qualifying, practice, fp1, fp2, fp3", ErrUnknownSession, name)
	}
}

// RaceLoader loads recorded sessions
type RaceLoader interface {
	LoadRace(ctx context.Context, season int, gp string) (*models.Race, error)
	LoadQualifying(ctx context.Context, season int, gp string) (*models.QualifyingSession, error)
	LoadPractice(ctx context.Context, season int, gp string, session int) ([]models.PracticeResult, error)
}

// Replay is a recorded session, with a reconstructed retirement narrative
// for races
type Replay struct {
	Season      int                       `json:"season"`
	GrandPrix   string                    `json:"grand_prix"`
	Session     Session                   `json:"session"`
	Race        *models.Race              `json:"race,omitempty"`
	Qualifying  *models.QualifyingSession `json:"qualifying,omitempty"`
	Practice    []models.PracticeResult   `json:"practice,omitempty"`
	Retirements []simulator.Retirement    `json:"retirements,omitempty"`
	Narrative   []string                  `json:"narrative,omitempty"`
}

// HistoricalService replays recorded sessions
type HistoricalService struct {
	loader RaceLoader
	opts   simulator.ReconstructOptions
	logger *logger.SimulationLogger
}

// NewHistoricalService creates a new historical service
func NewHistoricalService(loader RaceLoader, opts simulator.ReconstructOptions, log *logrus.Logger) *HistoricalService {
	return &HistoricalService{
		loader: loader,
		opts:   opts,
		logger: logger.NewSimulationLogger(log),
	}
}

// Replay loads a session. seed drives retirement lap synthesis; zero picks
// a time-based seed.
func (h *HistoricalService) Replay(ctx context.Context, season int, gp, session string, seed int64) (*Replay, error) {
	sess, err := ParseSession(session)
	if err != nil {
		return nil, err
	}
	out := &Replay{Season: season, GrandPrix: gp, Session: sess}

	switch sess.Kind {
	case SessionRace:
		race, err := h.loader.LoadRace(ctx, season, gp)
		if err != nil {
			return nil, err
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		out.Race = race
		out.Retirements = simulator.Reconstruct(race, simulator.NewSource(seed), h.opts)
		out.Narrative = simulator.Narrate(out.Retirements)
		h.logger.LogReconstruction(season, race.Circuit.ID, len(race.Results), len(out.Retirements))
	case SessionQualifying:
		q, err := h.loader.LoadQualifying(ctx, season, gp)
		if err != nil {
			return nil, err
		}
		out.Qualifying = q
	case SessionPractice:
		p, err := h.loader.LoadPractice(ctx, season, gp, sess.Practice)
		if err != nil {
			return nil, err
		}
		out.Practice = p
	}
	return out, nil
}
