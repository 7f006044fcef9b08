package gateway

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/telemetry"
)

// fakeResponder records every call and answers with a fixed reply.
type fakeResponder struct {
	reply   string
	err     error
	session bool

	mu    sync.Mutex
	keys  []string
	texts []string
}

func (f *fakeResponder) HandleScoped(_ context.Context, key, text string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.texts = append(f.texts, text)
	return f.reply, f.err
}

func (f *fakeResponder) SessionScoped() bool { return f.session }

func (f *fakeResponder) calls() ([]string, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.keys...), append([]string(nil), f.texts...)
}

type fakeStatus struct {
	model string
	turns int
	err   error
}

func (f fakeStatus) ModelName() string { return f.model }

func (f fakeStatus) HistoryLen(context.Context, string) (int, error) { return f.turns, f.err }

// newWiredGateway returns a provisioned gateway whose services are already
// bound, without a listening server.
func newWiredGateway(t *testing.T, responder Responder, status StatusSource) *Gateway {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	g := &Gateway{}
	if err := g.Provision(core.NewAppContext(logger, t.TempDir())); err != nil {
		t.Fatalf("Provision: %v", err)
	}
	g.responder = responder
	g.status = status
	g.metrics = telemetry.NewMetrics()
	return g
}

// newTestServer serves the gateway routes on an httptest server.
func newTestServer(t *testing.T, g *Gateway) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(g.buildRouter())
	t.Cleanup(srv.Close)
	return srv
}
