package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pthm-cable/cellsoup/game"
	"github.com/pthm-cable/cellsoup/telemetry"
)

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Tick       int32                  `json:"tick"`
	SimTime    float64                `json:"sim_time"`
	Population int                    `json:"population"`
	Items      int                    `json:"items"`
	Window     *telemetry.WindowStats `json:"window,omitempty"`
}

// AgentsResponse is the body of GET /api/agents.
type AgentsResponse struct {
	Tick   int32            `json:"tick"`
	Total  int              `json:"total"`
	Agents []game.AgentView `json:"agents"`
}

type handlers struct {
	source Source
	window func() *telemetry.WindowStats
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if s := h.source.Snapshot(); s != nil {
		resp["tick"] = s.Tick
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	s := h.source.Snapshot()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot published yet")
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Tick:       s.Tick,
		SimTime:    s.SimTime,
		Population: s.Population(),
		Items:      len(s.Items),
		Window:     h.window(),
	})
}

// handleAgents returns the agents of the latest snapshot. ?limit=N returns
// at most N agents in registration order.
func (h *handlers) handleAgents(w http.ResponseWriter, r *http.Request) {
	s := h.source.Snapshot()
	if s == nil {
		writeError(w, http.StatusServiceUnavailable, "no snapshot published yet")
		return
	}

	agents := s.Agents
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(agents) {
			agents = agents[:limit]
		}
	}
	if agents == nil {
		agents = []game.AgentView{}
	}

	writeJSON(w, http.StatusOK, AgentsResponse{
		Tick:   s.Tick,
		Total:  s.Population(),
		Agents: agents,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
