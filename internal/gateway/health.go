package gateway

import (
	"net/http"
	"time"

	"github.com/riosspedro/rios/internal/memory"
)

// HealthResponse is the JSON response for GET /health.
type HealthResponse struct {
	Status      string `json:"status"` // "ok" or "degraded"
	Model       string `json:"model,omitempty"`
	MemoryTurns *int   `json:"memory_turns,omitempty"`
	Uptime      string `json:"uptime,omitempty"`
}

// handleHealth returns an http.HandlerFunc for GET /health.
// Returns 503 when the conversation memory cannot be read. memory_turns
// counts the shared conversation and is left out when memory is kept per
// session.
func (g *Gateway) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok"}
		if !g.startedAt.IsZero() {
			resp.Uptime = time.Since(g.startedAt).Round(time.Second).String()
		}

		if g.status != nil {
			resp.Model = g.status.ModelName()
			if !g.responder.SessionScoped() {
				n, err := g.status.HistoryLen(r.Context(), memory.SharedScope)
				if err != nil {
					g.logger.Warn("health: history unavailable", "error", err)
					resp.Status = "degraded"
				} else {
					resp.MemoryTurns = &n
				}
			}
		}

		status := http.StatusOK
		if resp.Status == "degraded" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
