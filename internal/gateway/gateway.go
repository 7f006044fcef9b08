// Package gateway serves the router over HTTP and websocket.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/riosspedro/rios/internal/assistant"
	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/router"
	"github.com/riosspedro/rios/internal/telemetry"
	"gopkg.in/yaml.v3"
)

// ModuleID is the gateway module identifier.
const ModuleID = "gateway.http"

// ErrNoRouter is returned by Start when no router service is registered.
var ErrNoRouter = errors.New("gateway: router service not registered")

func init() {
	core.RegisterModule(&Gateway{})
}

// Responder answers one message for a caller. *router.Router satisfies it.
type Responder interface {
	HandleScoped(ctx context.Context, key, text string) (string, error)
	SessionScoped() bool
}

// StatusSource reports what /health shows. *assistant.Client satisfies it.
type StatusSource interface {
	ModelName() string
	HistoryLen(ctx context.Context, scope string) (int, error)
}

// Gateway is the HTTP gateway module. It is a leaf module: nothing
// imports it.
type Gateway struct {
	config    Config
	appCtx    *core.AppContext
	logger    *slog.Logger
	server    *http.Server
	startedAt time.Time

	// Resolved lazily at Start() via service registry.
	responder Responder
	status    StatusSource
	metrics   *telemetry.Metrics
}

// ModuleInfo implements core.Module.
func (g *Gateway) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  ModuleID,
		New: func() core.Module { return &Gateway{} },
	}
}

// Configure implements core.Configurable.
func (g *Gateway) Configure(node *yaml.Node) error {
	if err := node.Decode(&g.config); err != nil {
		return err
	}
	g.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (g *Gateway) Provision(ctx *core.AppContext) error {
	g.config.defaults()
	g.appCtx = ctx
	g.logger = ctx.Logger
	return nil
}

// Validate implements core.Validator.
func (g *Gateway) Validate() error {
	if _, err := net.ResolveTCPAddr("tcp", g.config.Bind); err != nil {
		return errors.New("gateway: invalid bind address: " + g.config.Bind)
	}
	for _, origin := range g.config.CORSOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("gateway: invalid cors origin %q", origin)
		}
	}
	return nil
}

// Start implements core.Starter. It resolves dependencies from the service
// registry (lazy binding) and starts the HTTP server.
func (g *Gateway) Start() error {
	if err := g.resolve(); err != nil {
		return err
	}

	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(context.Background(), "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", ln.Addr().String())
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop implements core.Stopper. Graceful shutdown with configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	return g.server.Shutdown(shutdownCtx)
}

// resolve binds the router (required) and the status and metrics
// services (optional).
func (g *Gateway) resolve() error {
	svc, ok := g.appCtx.Service(router.ServiceName)
	if !ok {
		return ErrNoRouter
	}
	responder, ok := svc.(Responder)
	if !ok {
		return fmt.Errorf("gateway: service %q is %T, not a responder", router.ServiceName, svc)
	}
	g.responder = responder

	if svc, ok := g.appCtx.Service(assistant.ServiceName); ok {
		if status, ok := svc.(StatusSource); ok {
			g.status = status
		}
	}
	if svc, ok := g.appCtx.Service(telemetry.MetricsServiceName); ok {
		if m, ok := svc.(*telemetry.Metrics); ok {
			g.metrics = m
		}
	}
	return nil
}
