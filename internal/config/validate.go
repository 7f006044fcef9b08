package config

import (
	"errors"
	"fmt"

	"github.com/riosspedro/rios/internal/core"
)

// Validate checks the structural validity of a Config: the version field,
// the known module IDs, and the ranges of the assistant, lookup and memory
// settings. All problems are reported together.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	if _, ok := cfg.Modules["provider.openai"]; !ok {
		errs = append(errs, errors.New("config: module \"provider.openai\" must be configured"))
	}

	for id := range cfg.Modules {
		if _, ok := core.GetModule(id); !ok {
			errs = append(errs, fmt.Errorf("config: unknown module %q", id))
		}
	}

	errs = append(errs, validateAssistant(cfg.Assistant)...)

	if cfg.Lookups.Timeout < 0 {
		errs = append(errs, fmt.Errorf("config: lookups.timeout must be positive, got %s", cfg.Lookups.Timeout))
	}

	switch cfg.Memory.Scope {
	case "", ScopeShared, ScopeSession:
	default:
		errs = append(errs, fmt.Errorf("config: memory.scope must be %q or %q, got %q", ScopeShared, ScopeSession, cfg.Memory.Scope))
	}

	return errors.Join(errs...)
}

func validateAssistant(a AssistantConfig) []error {
	var errs []error
	if a.Temperature != nil && (*a.Temperature < 0 || *a.Temperature > 2) {
		errs = append(errs, fmt.Errorf("config: assistant.temperature must be within [0, 2], got %v", *a.Temperature))
	}
	if a.HistoryWindow < 0 {
		errs = append(errs, fmt.Errorf("config: assistant.history_window must be non-negative, got %d", a.HistoryWindow))
	}
	return errs
}
