package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riosspedro/rios/internal/provider"
)

func postChat(t *testing.T, g *Gateway, body string) (*httptest.ResponseRecorder, ChatResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, req)

	var resp ChatResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr, resp
}

func TestRoot(t *testing.T) {
	t.Parallel()

	g := newWiredGateway(t, &fakeResponder{}, nil)
	rr := httptest.NewRecorder()
	g.buildRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != `{"message":"Rios AI API is running"}` {
		t.Errorf("body = %s", got)
	}
}

func TestChat_Reply(t *testing.T) {
	t.Parallel()

	responder := &fakeResponder{reply: "📘 Resultado do cálculo: **4**"}
	g := newWiredGateway(t, responder, nil)

	rr, resp := postChat(t, g, `{"message":"  2 + 2  "}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if resp.Reply != "📘 Resultado do cálculo: **4**" {
		t.Errorf("reply = %q", resp.Reply)
	}
	if resp.SessionID != "" {
		t.Errorf("session_id = %q, want empty in shared mode", resp.SessionID)
	}

	keys, texts := responder.calls()
	if len(texts) != 1 || texts[0] != "  2 + 2  " {
		t.Errorf("router got %q, want the message as sent", texts)
	}
	if keys[0] != "" {
		t.Errorf("key = %q, want empty", keys[0])
	}
	if got := testutil.ToFloat64(g.metrics.HTTPRequests.WithLabelValues("/chat", "200")); got != 1 {
		t.Errorf("http counter = %v, want 1", got)
	}
}

func TestChat_BlankMessage(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		responder := &fakeResponder{reply: "unused"}
		g := newWiredGateway(t, responder, nil)

		rr, resp := postChat(t, g, body)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, rr.Code)
		}
		if resp.Reply != "Não recebi nenhuma mensagem de texto para responder." {
			t.Errorf("%s: reply = %q", body, resp.Reply)
		}
		if _, texts := responder.calls(); len(texts) != 0 {
			t.Errorf("%s: router called for a blank message", body)
		}
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	t.Parallel()

	g := newWiredGateway(t, &fakeResponder{}, nil)
	rr, resp := postChat(t, g, `{"message":`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
	if resp.Reply != replyBadJSON {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestChat_BodyTooLarge(t *testing.T) {
	t.Parallel()

	g := newWiredGateway(t, &fakeResponder{}, nil)
	g.config.MaxBodyBytes = 16

	rr, _ := postChat(t, g, `{"message":"`+strings.Repeat("a", 64)+`"}`)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rr.Code)
	}
}

func TestChat_LLMFailure(t *testing.T) {
	t.Parallel()

	g := newWiredGateway(t, &fakeResponder{err: provider.ErrProviderDown}, nil)

	rr, resp := postChat(t, g, `{"message":"oi"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if resp.Reply != replyLLMFailed {
		t.Errorf("reply = %q", resp.Reply)
	}
}

func TestChat_SessionIDs(t *testing.T) {
	t.Parallel()

	t.Run("echoed", func(t *testing.T) {
		t.Parallel()
		responder := &fakeResponder{reply: "ok", session: true}
		g := newWiredGateway(t, responder, nil)

		_, resp := postChat(t, g, `{"message":"oi","session_id":"abc"}`)
		if resp.SessionID != "abc" {
			t.Errorf("session_id = %q, want abc", resp.SessionID)
		}
		if keys, _ := responder.calls(); keys[0] != "abc" {
			t.Errorf("key = %q, want abc", keys[0])
		}
	})

	t.Run("assigned in session mode", func(t *testing.T) {
		t.Parallel()
		responder := &fakeResponder{reply: "ok", session: true}
		g := newWiredGateway(t, responder, nil)

		_, resp := postChat(t, g, `{"message":"oi"}`)
		if _, err := uuid.Parse(resp.SessionID); err != nil {
			t.Errorf("session_id = %q, want a UUID", resp.SessionID)
		}
		if keys, _ := responder.calls(); keys[0] != resp.SessionID {
			t.Errorf("key = %q, want %q", keys[0], resp.SessionID)
		}
	})
}

func TestCORS(t *testing.T) {
	t.Parallel()

	g := newWiredGateway(t, &fakeResponder{reply: "ok"}, nil)
	h := g.buildRouter()

	t.Run("preflight from allowed origin", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Allow-Origin = %q, want echoed origin", got)
		}
		if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("Allow-Credentials = %q, want true", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Allow-Origin = %q, want empty", got)
		}
	})
}
