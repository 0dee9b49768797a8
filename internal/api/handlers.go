package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yourusername/pitwall/internal/catalog"
	"github.com/yourusername/pitwall/internal/models"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

const defaultListLimit = 20

// ErrorResponse defines the standard error response structure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SimulationResponse is the classification of one simulated race
type SimulationResponse struct {
	Outcome   *simulator.Outcome `json:"outcome"`
	Narrative []string           `json:"narrative"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", r.URL.Path).Error("Request failed")
	}
	respondJSON(w, status, ErrorResponse{Error: err.Error()})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, catalog.ErrUnknownCircuit):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidParameters),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, service.ErrUnknownSession),
		errors.Is(err, service.ErrTooManyRuns),
		errors.Is(err, simulator.ErrInvalidCircuit):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrSessionUnavailable):
		return http.StatusNotImplemented
	case errors.Is(err, service.ErrPersistenceDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	if err := s.validator.Struct(v); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

func (s *Server) handleCircuits(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Simulations == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "simulation service unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, s.cfg.Simulations.Circuits())
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Simulations == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "simulation service unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, s.cfg.Simulations.Drivers())
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Simulations == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "simulation service unavailable"})
		return
	}
	var req service.SimulationRequest
	if !s.decode(w, r, &req) {
		return
	}
	outcome, err := s.cfg.Simulations.Simulate(r.Context(), req, nil)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, SimulationResponse{
		Outcome:   outcome,
		Narrative: simulator.Narrate(outcome.Retirements),
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "prediction service unavailable"})
		return
	}
	var req service.PredictionRequest
	if !s.decode(w, r, &req) {
		return
	}
	outcome, err := s.cfg.Predictions.Predict(r.Context(), req, nil)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	status := http.StatusOK
	if outcome.Stored {
		status = http.StatusCreated
	}
	respondJSON(w, status, outcome)
}

func (s *Server) handleGetPrediction(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "prediction service unavailable"})
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: models.ErrInvalidID.Error()})
		return
	}
	run, err := s.cfg.Predictions.Get(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, run)
}

func (s *Server) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Predictions == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "prediction service unavailable"})
		return
	}
	q := r.URL.Query()
	season, err := queryInt(q.Get("season"), 0)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid season"})
		return
	}
	limit, err := queryInt(q.Get("limit"), defaultListLimit)
	if err != nil || limit <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		return
	}
	runs, err := s.cfg.Predictions.Recent(r.Context(), season, q.Get("circuit"), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*models.PredictionRun{}
	}
	respondJSON(w, http.StatusOK, runs)
}

func (s *Server) handleReplay(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Historical == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "historical data unavailable"})
		return
	}
	season, err := strconv.Atoi(chi.URLParam(r, "season"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid season"})
		return
	}
	session := r.URL.Query().Get("session")
	if session == "" {
		session = string(service.SessionRace)
	}
	seed, err := queryInt(r.URL.Query().Get("seed"), 0)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid seed"})
		return
	}

	replay, err := s.cfg.Historical.Replay(r.Context(), season, chi.URLParam(r, "gp"), session, int64(seed))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, replay)
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
