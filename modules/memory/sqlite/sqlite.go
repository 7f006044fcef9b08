// Package sqlite implements the memory.sqlite module: a conversation
// HistoryStore on modernc.org/sqlite (pure Go, no CGO). The default
// database lives in process memory; set path to keep history in a file.
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/memory"
	"gopkg.in/yaml.v3"
)

// ModuleID is the registry identifier of this module.
const ModuleID = "memory.sqlite"

func init() {
	core.RegisterModule(&Module{})
}

// Compile-time interface guards.
var (
	_ core.Configurable = (*Module)(nil)
	_ core.Provisioner  = (*Module)(nil)
	_ core.Validator    = (*Module)(nil)
	_ core.Stopper      = (*Module)(nil)
)

// Module exposes a SQLite-backed memory.HistoryStore as the
// memory.history service.
type Module struct {
	config  Config
	logger  *slog.Logger
	history *HistoryStore
}

// ModuleInfo implements core.Module.
func (m *Module) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  ModuleID,
		New: func() core.Module { return &Module{} },
	}
}

// Configure implements core.Configurable.
func (m *Module) Configure(node *yaml.Node) error {
	if err := node.Decode(&m.config); err != nil {
		return fmt.Errorf("sqlite: decode config: %w", err)
	}
	m.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (m *Module) Provision(ctx *core.AppContext) error {
	m.config.defaults()
	m.logger = ctx.Logger
	if !m.config.inMemory() && !filepath.IsAbs(m.config.Path) && ctx.DataDir != "" {
		m.config.Path = filepath.Join(ctx.DataDir, m.config.Path)
	}

	history, err := Open(context.Background(), m.config)
	if err != nil {
		return err
	}
	m.history = history

	ctx.RegisterService(memory.ServiceName, m.history)

	m.logger.Info("sqlite memory module provisioned",
		"path", m.config.Path,
		"wal", m.config.walEnabled(),
	)

	return nil
}

// Validate implements core.Validator.
func (m *Module) Validate() error {
	if err := m.config.validate(); err != nil {
		return err
	}
	if err := m.history.db.PingContext(context.Background()); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}
	return nil
}

// Stop implements core.Stopper.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("sqlite memory module stopping")
	if m.history != nil {
		return m.history.Close()
	}
	return nil
}

// History returns the HistoryStore implementation.
func (m *Module) History() memory.HistoryStore {
	return m.history
}
