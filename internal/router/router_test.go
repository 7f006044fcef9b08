package router

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/riosspedro/rios/internal/intent"
	"github.com/riosspedro/rios/internal/lookup"
	"github.com/riosspedro/rios/internal/memory"
	"github.com/riosspedro/rios/internal/provider"
	"github.com/riosspedro/rios/internal/telemetry"
	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// stubHandler replies with a fixed sentence and counts calls.
type stubHandler struct {
	reply string

	mu    sync.Mutex
	calls int
}

func (s *stubHandler) Handle(_ context.Context, _ string) string {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.reply
}

func (s *stubHandler) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubAsker records the scope of each call.
type stubAsker struct {
	reply string
	err   error

	mu     sync.Mutex
	scopes []string
}

func (s *stubAsker) Ask(_ context.Context, scope, _ string) (string, error) {
	s.mu.Lock()
	s.scopes = append(s.scopes, scope)
	s.mu.Unlock()
	return s.reply, s.err
}

type fixture struct {
	router    *Router
	weather   *stubHandler
	currency  *stubHandler
	crypto    *stubHandler
	assistant *stubAsker
	metrics   *telemetry.Metrics
	spans     *tracetest.SpanRecorder
}

func newFixture(t *testing.T, mutate func(*Config)) *fixture {
	t.Helper()

	f := &fixture{
		weather:   &stubHandler{reply: "Tempo em Uberlândia: 25°C."},
		currency:  &stubHandler{reply: "1 USD = 5.0 BRL"},
		crypto:    &stubHandler{reply: "Bitcoin hoje:\nUSD: $1\nBRL: R$ 5"},
		assistant: &stubAsker{reply: "Olá!"},
		metrics:   telemetry.NewMetrics(),
		spans:     tracetest.NewSpanRecorder(),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(f.spans))

	cfg := Config{
		Classifier: intent.KeywordClassifier{},
		Weather:    f.weather,
		Currency:   f.currency,
		Crypto:     f.crypto,
		Assistant:  f.assistant,
		Metrics:    f.metrics,
		Tracer:     tp.Tracer("test"),
	}
	if mutate != nil {
		mutate(&cfg)
	}

	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f.router = r
	return f
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	h := &stubHandler{}
	a := &stubAsker{}
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"no classifier", Config{Weather: h, Currency: h, Crypto: h, Assistant: a}, ErrNoClassifier},
		{"no weather", Config{Classifier: intent.KeywordClassifier{}, Currency: h, Crypto: h, Assistant: a}, ErrNoHandler},
		{"no currency", Config{Classifier: intent.KeywordClassifier{}, Weather: h, Crypto: h, Assistant: a}, ErrNoHandler},
		{"no crypto", Config{Classifier: intent.KeywordClassifier{}, Weather: h, Currency: h, Assistant: a}, ErrNoHandler},
		{"no assistant", Config{Classifier: intent.KeywordClassifier{}, Weather: h, Currency: h, Crypto: h}, ErrNoAssistant},
		{"typed nil weather", Config{Classifier: intent.KeywordClassifier{}, Weather: (*lookup.Weather)(nil), Currency: h, Crypto: h, Assistant: a}, ErrNoHandler},
		{"typed nil crypto", Config{Classifier: intent.KeywordClassifier{}, Weather: h, Currency: h, Crypto: (*stubHandler)(nil), Assistant: a}, ErrNoHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := New(tt.cfg); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestHandle_Dispatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"calculator", "quanto é 12 + 35 * 2", "📘 Resultado do cálculo: **82**"},
		{"calculator beats weather", "qual o tempo em 2 + 2 cidades", "📘 Resultado do cálculo: **4**"},
		{"calculator error", "10 / 0", "⚠️ Erro ao calcular: Divisão por zero."},
		{"weather", "qual o tempo em Uberlândia", "Tempo em Uberlândia: 25°C."},
		{"currency", "quanto está o dólar hoje", "1 USD = 5.0 BRL"},
		{"crypto", "preço do bitcoin", "Bitcoin hoje:\nUSD: $1\nBRL: R$ 5"},
		{"llm", "quem é você", "Olá!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			got, err := f.router.Handle(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandle_ExactlyOneHandler(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	if _, err := f.router.Handle(context.Background(), "cotação do dólar e do bitcoin"); err != nil {
		t.Fatal(err)
	}
	if f.currency.Calls() != 1 || f.crypto.Calls() != 0 || f.weather.Calls() != 0 {
		t.Errorf("calls: weather=%d currency=%d crypto=%d, want 0/1/0",
			f.weather.Calls(), f.currency.Calls(), f.crypto.Calls())
	}
	if len(f.assistant.scopes) != 0 {
		t.Errorf("assistant called %d times, want 0", len(f.assistant.scopes))
	}
}

func TestHandle_LLMErrorPropagates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(cfg *Config) {
		cfg.Assistant = &stubAsker{err: provider.ErrProviderDown}
	})

	_, err := f.router.Handle(context.Background(), "me conte uma piada")
	if !errors.Is(err, provider.ErrProviderDown) {
		t.Fatalf("error = %v, want ErrProviderDown", err)
	}

	if got := testutil.ToFloat64(f.metrics.Turns.WithLabelValues("llm", telemetry.OutcomeError)); got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
	spans := f.spans.Ended()
	if len(spans) != 1 || spans[0].Status().Code != otelcodes.Error {
		t.Errorf("want one errored span, got %d spans", len(spans))
	}
}

func TestHandle_Scoping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		scoping memory.Scoping
		want    string
	}{
		{"shared by default", "", memory.SharedScope},
		{"shared", memory.ScopingShared, memory.SharedScope},
		{"session", memory.ScopingSession, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, func(cfg *Config) { cfg.Scoping = tt.scoping })
			if _, err := f.router.HandleScoped(context.Background(), "abc", "oi"); err != nil {
				t.Fatal(err)
			}
			if got := f.assistant.scopes[0]; got != tt.want {
				t.Errorf("scope = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHandle_RecordsTelemetry(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	ctx := context.Background()
	for _, text := range []string{"2 + 2", "3 * 3", "clima em Recife"} {
		if _, err := f.router.Handle(ctx, text); err != nil {
			t.Fatal(err)
		}
	}

	if got := testutil.ToFloat64(f.metrics.Turns.WithLabelValues("calculator", telemetry.OutcomeOK)); got != 2 {
		t.Errorf("calculator ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(f.metrics.Turns.WithLabelValues("weather", telemetry.OutcomeOK)); got != 1 {
		t.Errorf("weather ok = %v, want 1", got)
	}

	spans := f.spans.Ended()
	if len(spans) != 3 {
		t.Fatalf("spans = %d, want 3", len(spans))
	}
	for _, s := range spans {
		if s.Name() != "router.handle" {
			t.Errorf("span name = %q", s.Name())
		}
	}
}

func TestHandle_WithoutMetrics(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func(cfg *Config) { cfg.Metrics = nil; cfg.Tracer = nil })
	if _, err := f.router.Handle(context.Background(), "1 + 1"); err != nil {
		t.Fatal(err)
	}
}
