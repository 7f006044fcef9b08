// Package openai implements the provider.openai module, a client for the
// OpenAI Chat Completions API.
package openai

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/riosspedro/rios/internal/core"
	"github.com/riosspedro/rios/internal/provider"
	"gopkg.in/yaml.v3"
)

// ModuleID is the registry identifier of this module.
const ModuleID = "provider.openai"

func init() {
	core.RegisterModule(&Provider{})
}

// Compile-time interface guards.
var (
	_ provider.Provider = (*Provider)(nil)
	_ core.Module       = (*Provider)(nil)
	_ core.Configurable = (*Provider)(nil)
	_ core.Provisioner  = (*Provider)(nil)
	_ core.Validator    = (*Provider)(nil)
)

// Provider implements the OpenAI Chat Completions API as a rios provider module.
type Provider struct {
	config Config
	logger *slog.Logger
	client *http.Client
}

// New returns a provider configured directly from cfg, bypassing the
// module lifecycle. Zero fields take their defaults.
func New(cfg Config, logger *slog.Logger) *Provider {
	cfg.defaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		config: cfg,
		logger: logger,
		client: &http.Client{Timeout: cfg.parsedTimeout()},
	}
}

// ModuleInfo implements core.Module.
func (p *Provider) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID:  ModuleID,
		New: func() core.Module { return &Provider{} },
	}
}

// Configure implements core.Configurable.
func (p *Provider) Configure(node *yaml.Node) error {
	if err := node.Decode(&p.config); err != nil {
		return err
	}
	p.config.defaults()
	return nil
}

// Provision implements core.Provisioner.
func (p *Provider) Provision(ctx *core.AppContext) error {
	p.logger = ctx.Logger
	p.client = &http.Client{
		Timeout: p.config.parsedTimeout(),
	}

	ctx.RegisterService(ModuleID, p)

	return nil
}

// Validate implements core.Validator.
func (p *Provider) Validate() error {
	if p.config.APIKey == "" {
		return errors.New("provider.openai: api_key is required (set OPENAI_API_KEY)")
	}
	if p.config.Model == "" {
		return errors.New("provider.openai: model is required")
	}
	return p.config.validateTimeout()
}

// APIKey returns the configured key so the caller can register it with
// the log redactor.
func (p *Provider) APIKey() string {
	return p.config.APIKey
}
