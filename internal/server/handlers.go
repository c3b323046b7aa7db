package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/akastanis/holdwise/internal/portfolio"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "holdwise",
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions := s.strategy.Tracker().Positions()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"positions": positions,
		"count":     len(positions),
	})
}

type performanceResponse struct {
	Valuations     map[string]portfolio.Valuation `json:"valuations"`
	Summary        portfolio.Summary              `json:"summary"`
	RebalanceState string                         `json:"rebalance_state"`
	LastRebalance  *time.Time                     `json:"last_rebalance,omitempty"`
	EvaluatedAt    time.Time                      `json:"evaluated_at"`
}

func (s *Server) handlePerformance(w http.ResponseWriter, r *http.Request) {
	valuations, summary := s.strategy.CheckPerformance(r.Context())

	resp := performanceResponse{
		Valuations:     valuations,
		Summary:        summary,
		RebalanceState: string(s.rebalance.State()),
		EvaluatedAt:    time.Now().UTC(),
	}
	if last := s.rebalance.LastRebalance(); !last.IsZero() {
		resp.LastRebalance = &last
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
