package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/pitwall/internal/metrics"
	"github.com/yourusername/pitwall/internal/service"
	"github.com/yourusername/pitwall/internal/simulator"
)

const (
	writeWait   = 10 * time.Second
	maxLapDelay = 5 * time.Second
)

// Stream message types
const (
	MessageLap    = "lap"
	MessageResult = "result"
	MessageError  = "error"
)

// StreamMessage is one frame on the lap stream
type StreamMessage struct {
	Type      string              `json:"type"`
	Lap       *simulator.Snapshot `json:"lap,omitempty"`
	Outcome   *simulator.Outcome  `json:"outcome,omitempty"`
	Narrative []string            `json:"narrative,omitempty"`
	Error     string              `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// handleStream runs one race and pushes a snapshot per lap followed by the
// final classification. Query parameters: grand_prix, mode, seed, delay.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Simulations == nil {
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "simulation service unavailable"})
		return
	}

	q := r.URL.Query()
	req := service.SimulationRequest{GrandPrix: q.Get("grand_prix"), Mode: q.Get("mode")}
	if raw := q.Get("seed"); raw != "" {
		seed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid seed"})
			return
		}
		req.Seed = seed
	}
	delay := s.cfg.LapDelay
	if raw := q.Get("delay"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid delay"})
			return
		}
		delay = d
	}
	if delay > maxLapDelay {
		delay = maxLapDelay
	}
	if err := s.validator.Struct(req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()
	metrics.StreamOpened()
	defer metrics.StreamClosed()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends frames; a read error means it went away.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	send := func(msg StreamMessage) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	outcome, err := s.cfg.Simulations.Simulate(ctx, req, func(snap simulator.Snapshot) error {
		if err := send(StreamMessage{Type: MessageLap, Lap: &snap}); err != nil {
			return err
		}
		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() == nil {
			_ = send(StreamMessage{Type: MessageError, Error: err.Error()})
		}
		s.logger.WithError(err).WithField("grand_prix", req.GrandPrix).Debug("Lap stream ended early")
		return
	}

	_ = send(StreamMessage{Type: MessageResult, Outcome: outcome, Narrative: simulator.Narrate(outcome.Retirements)})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "race complete"),
		time.Now().Add(writeWait))
}
