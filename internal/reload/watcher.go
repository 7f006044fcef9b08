// Package reload watches the configuration file while the server runs and
// hands every revision that loads and validates to an Applier.
package reload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/riosspedro/rios/internal/config"
)

// DefaultDebounce is how long the file must stay quiet before it is
// reloaded when Config.Debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

var (
	ErrNoPath    = errors.New("reload: config path is required")
	ErrNoApplier = errors.New("reload: applier is required")
)

// Applier receives each new configuration revision.
type Applier interface {
	Apply(cfg *config.Config) error
}

// ApplierFunc adapts a function to Applier.
type ApplierFunc func(cfg *config.Config) error

// Apply calls f(cfg).
func (f ApplierFunc) Apply(cfg *config.Config) error { return f(cfg) }

// Config configures a Watcher.
type Config struct {
	Path     string
	Debounce time.Duration
	Applier  Applier
	Logger   *slog.Logger
}

// Watcher reloads a configuration file when it changes on disk.
type Watcher struct {
	cfg    Config
	path   string
	logger *slog.Logger
}

// New returns a Watcher for cfg.Path.
func New(cfg Config) (*Watcher, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	if cfg.Applier == nil {
		return nil, ErrNoApplier
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("reload: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		cfg:    cfg,
		path:   path,
		logger: logger.With("component", "reload", "path", path),
	}, nil
}

// Run watches the file until ctx is cancelled. A revision that fails to
// load, validate or apply is logged and the previous settings stay in
// effect.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	defer fw.Close()

	// Editors often save by replacing the file, which drops a watch on
	// the file itself.
	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("reload: watch %s: %w", dir, err)
	}

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("config watcher error", "error", err)

		case <-timer.C:
			if err := w.Reload(); err != nil {
				w.logger.Error("configuration reload failed", "error", err)
				continue
			}
			w.logger.Info("configuration reloaded")
		}
	}
}

// Reload loads, validates and applies the file once.
func (w *Watcher) Reload() error {
	cfg, err := config.Load(w.path)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := w.cfg.Applier.Apply(cfg); err != nil {
		return fmt.Errorf("reload: apply: %w", err)
	}
	return nil
}
