package telemetry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.Turns.WithLabelValues("calculator", OutcomeOK).Inc()
	m.TurnDuration.WithLabelValues("calculator").Observe(0.01)
	m.HTTPRequests.WithLabelValues("/chat", "200").Inc()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`rios_turns_total{category="calculator",outcome="ok"} 1`,
		`rios_turn_duration_seconds_count{category="calculator"} 1`,
		`rios_http_requests_total{code="200",route="/chat"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	t.Parallel()

	a, b := NewMetrics(), NewMetrics()
	a.Turns.WithLabelValues("llm", OutcomeError).Inc()

	if got := testutil.ToFloat64(a.Turns.WithLabelValues("llm", OutcomeError)); got != 1 {
		t.Errorf("a = %v, want 1", got)
	}
	if got := testutil.ToFloat64(b.Turns.WithLabelValues("llm", OutcomeError)); got != 0 {
		t.Errorf("b = %v, want 0", got)
	}
}

func TestSetupTracing_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := SetupTracing(context.Background(), TracingConfig{})
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestSetupTracing_RequiresServiceName(t *testing.T) {
	t.Parallel()

	_, err := SetupTracing(context.Background(), TracingConfig{Endpoint: "localhost:4318"})
	if !errors.Is(err, ErrNoServiceName) {
		t.Errorf("error = %v, want ErrNoServiceName", err)
	}
}

func TestSetupTracing_Enabled(t *testing.T) {
	shutdown, err := SetupTracing(context.Background(), TracingConfig{
		ServiceName: "rios-test",
		Endpoint:    "127.0.0.1:4318",
		Insecure:    true,
	})
	if err != nil {
		t.Fatalf("SetupTracing: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
