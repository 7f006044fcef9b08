package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// User-facing replies for requests the router never sees or cannot answer.
const (
	replyBlank     = "Não recebi nenhuma mensagem de texto para responder."
	replyBadJSON   = "Não consegui ler a mensagem enviada."
	replyLLMFailed = "Tive um problema ao falar com o modelo de linguagem. Tente novamente em instantes."
)

// ChatRequest is the JSON body of POST /chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse is the JSON response of POST /chat. SessionID is set when
// the caller sent one or when session scoping assigned a new one.
type ChatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id,omitempty"`
}

// handleRoot returns an http.HandlerFunc for GET /.
func (g *Gateway) handleRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Rios AI API is running"})
	}
}

// handleChat returns an http.HandlerFunc for POST /chat.
func (g *Gateway) handleChat() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, g.config.MaxBodyBytes)

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			g.logger.Warn("invalid chat request", "error", err)
			writeJSON(w, http.StatusBadRequest, ChatResponse{Reply: replyBadJSON})
			return
		}

		sessionID := g.sessionID(req.SessionID)
		reply, status := g.answer(r.Context(), sessionID, req.Message)
		writeJSON(w, status, ChatResponse{Reply: reply, SessionID: sessionID})
	}
}

// answer runs one message through the router and maps the outcome to a
// reply and HTTP status.
func (g *Gateway) answer(ctx context.Context, sessionID, message string) (string, int) {
	if strings.TrimSpace(message) == "" {
		return replyBlank, http.StatusBadRequest
	}

	reply, err := g.responder.HandleScoped(ctx, sessionID, message)
	if err != nil {
		g.logger.Error("chat failed", "session_id", sessionID, "error", err)
		return replyLLMFailed, http.StatusInternalServerError
	}
	return reply, http.StatusOK
}

// sessionID keeps the caller's ID, or assigns one when conversations
// are per session.
func (g *Gateway) sessionID(given string) string {
	if given != "" || !g.responder.SessionScoped() {
		return given
	}
	return uuid.NewString()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
