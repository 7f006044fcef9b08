package router

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/riosspedro/rios/internal/intent"
	"github.com/riosspedro/rios/internal/lookup"
	"github.com/riosspedro/rios/internal/memory"
	"github.com/riosspedro/rios/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/riosspedro/rios/internal/router"

// ServiceName is the AppContext key the Router is registered under.
const ServiceName = "router"

// Asker answers a message on the LLM path. *assistant.Client satisfies it.
type Asker interface {
	Ask(ctx context.Context, scope, text string) (string, error)
}

// Config holds the dependencies of a Router.
type Config struct {
	Classifier intent.Classifier

	Weather  lookup.Handler
	Currency lookup.Handler
	Crypto   lookup.Handler

	Assistant Asker

	// Scoping maps caller keys onto history scopes. Zero means shared.
	Scoping memory.Scoping

	// Metrics is optional.
	Metrics *telemetry.Metrics

	// Tracer defaults to the global tracer provider.
	Tracer trace.Tracer
	Logger *slog.Logger
}

// withDefaults returns a copy of the config with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.Scoping == "" {
		c.Scoping = memory.ScopingShared
	}
	if c.Tracer == nil {
		c.Tracer = otel.Tracer(tracerName)
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Router classifies each message and hands it to exactly one handler.
// It holds no per-request state and is safe for concurrent use.
type Router struct {
	config  Config
	lookups map[intent.Category]lookup.Handler
	logger  *slog.Logger
}

// New validates cfg and returns a Router.
func New(cfg Config) (*Router, error) {
	cfg = cfg.withDefaults()

	if cfg.Classifier == nil {
		return nil, ErrNoClassifier
	}
	for name, h := range map[string]lookup.Handler{
		"weather":  cfg.Weather,
		"currency": cfg.Currency,
		"crypto":   cfg.Crypto,
	} {
		if isNil(h) {
			return nil, fmt.Errorf("%w: %s", ErrNoHandler, name)
		}
	}
	if cfg.Assistant == nil {
		return nil, ErrNoAssistant
	}

	return &Router{
		config: cfg,
		lookups: map[intent.Category]lookup.Handler{
			intent.Weather:  cfg.Weather,
			intent.Currency: cfg.Currency,
			intent.Crypto:   cfg.Crypto,
		},
		logger: cfg.Logger.With("component", "router"),
	}, nil
}

// Handle answers text in the shared conversation.
func (r *Router) Handle(ctx context.Context, text string) (string, error) {
	return r.HandleScoped(ctx, memory.SharedScope, text)
}

// HandleScoped answers text for the caller identified by key. The key
// only matters on the LLM path, and only when session scoping is on.
//
// Calculator and lookup turns always produce a reply. An LLM failure is
// returned as an error.
func (r *Router) HandleScoped(ctx context.Context, key, text string) (string, error) {
	start := time.Now()
	ctx, span := r.config.Tracer.Start(ctx, "router.handle")
	defer span.End()

	r.logger.Info("user asked", "question", text)

	category := r.config.Classifier.Classify(text)
	span.SetAttributes(attribute.String("rios.category", category.String()))
	r.logger.Debug("category detected", "category", category.String())

	reply, err := r.dispatch(ctx, category, key, text)
	r.observe(category, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch")
		r.logger.Error("turn failed", "category", category.String(), "error", err)
		return "", err
	}
	return reply, nil
}

// SessionScoped reports whether callers get separate histories.
func (r *Router) SessionScoped() bool {
	return r.config.Scoping == memory.ScopingSession
}

// Scope returns the history scope used for a caller key.
func (r *Router) Scope(key string) string {
	return r.config.Scoping.Resolve(key)
}

func (r *Router) dispatch(ctx context.Context, category intent.Category, key, text string) (string, error) {
	switch category {
	case intent.Calculator:
		return calculate(text), nil
	case intent.Weather, intent.Currency, intent.Crypto:
		return r.lookups[category].Handle(ctx, text), nil
	default:
		return r.config.Assistant.Ask(ctx, r.Scope(key), text)
	}
}

func (r *Router) observe(category intent.Category, elapsed time.Duration, err error) {
	m := r.config.Metrics
	if m == nil {
		return
	}
	outcome := telemetry.OutcomeOK
	if err != nil {
		outcome = telemetry.OutcomeError
	}
	m.Turns.WithLabelValues(category.String(), outcome).Inc()
	m.TurnDuration.WithLabelValues(category.String()).Observe(elapsed.Seconds())
}

// isNil reports whether h is nil or holds a nil pointer.
func isNil(h lookup.Handler) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
