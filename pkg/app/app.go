// Package app provides the shared bootstrap for the rios commands: it
// loads the configuration, builds the logger, loads the modules and
// wires the router.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/riosspedro/rios/internal/assistant"
	"github.com/riosspedro/rios/internal/config"
	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/reload"
	"github.com/riosspedro/rios/internal/router"
	"github.com/riosspedro/rios/internal/security"
	"github.com/riosspedro/rios/internal/telemetry"
)

// Params configures Build.
type Params struct {
	// ConfigPath is an explicit path to the YAML configuration file.
	// If empty, ResolveConfigPath is tried, then the embedded default.
	ConfigPath string

	// DataDir overrides the default persistent data directory.
	DataDir string

	// LogOutput receives log lines. Defaults to os.Stderr.
	LogOutput io.Writer

	// SkipModules are configured modules not to load, e.g. the HTTP
	// gateway when running the terminal chat.
	SkipModules []string

	// WatchConfig makes Run watch the configuration file for changes and
	// apply the assistant settings of every valid revision.
	WatchConfig bool
}

// App is a fully wired rios instance.
type App struct {
	Config     *config.Config
	ConfigPath string
	Logger     *slog.Logger

	Router    *router.Router
	Assistant *assistant.Client
	Metrics   *telemetry.Metrics

	core    *core.App
	watch   bool
	closers []func(context.Context) error
}

// Build loads everything and wires the router. Modules are provisioned
// but not started.
func Build(ctx context.Context, params Params) (*App, error) {
	cfg, cfgPath, err := LoadConfig(params.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	out := params.LogOutput
	if out == nil {
		out = os.Stderr
	}
	redactor := security.NewRedactor()
	logger, closeLog, err := NewLogger(cfg.Log, out, redactor)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
		Metrics:    telemetry.NewMetrics(),
		watch:      params.WatchConfig,
	}
	a.closers = append(a.closers, func(context.Context) error { return closeLog() })

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracing)

	dataDir := params.DataDir
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	appCtx := core.NewAppContext(logger, dataDir).WithModuleConfigs(cfg.Modules)
	appCtx.RegisterService(telemetry.MetricsServiceName, a.Metrics)
	if cfgPath != "" {
		appCtx.RegisterService("config.path", cfgPath)
	}

	a.core = core.NewApp(appCtx)
	ids := config.Without(config.Resolve(cfg), params.SkipModules...)
	if err := a.core.LoadModules(ids); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	if err := a.wire(appCtx, redactor); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}

	logger.Debug("app built", "config", cfgPath, "modules", a.core.ModuleIDs())
	return a, nil
}

// Start starts every loaded module.
func (a *App) Start() error {
	return a.core.Start()
}

// Run starts every module and blocks until ctx is cancelled or a
// shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	if a.watch && a.ConfigPath != "" {
		w, err := reload.New(reload.Config{
			Path:    a.ConfigPath,
			Applier: reload.ApplierFunc(a.Apply),
			Logger:  a.Logger,
		})
		if err != nil {
			return err
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() { _ = w.Run(ctx) }()
	}
	return a.core.Run(ctx)
}

// Apply hands the assistant settings of cfg to the running assistant.
// Module, lookup and memory settings take effect on the next start.
func (a *App) Apply(cfg *config.Config) error {
	a.Assistant.Reconfigure(assistantSettings(cfg.Assistant))
	a.Logger.Info("assistant settings applied",
		"temperature", *cfg.Assistant.Temperature,
		"history_window", cfg.Assistant.HistoryWindow,
	)
	return nil
}

// Close stops the modules and releases the tracer and log file.
func (a *App) Close(ctx context.Context) error {
	if a.core != nil {
		a.core.Stop()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
