// Package config handles YAML configuration loading, environment variable
// expansion, and structural validation for rios.
package config

import (
	"time"

	"github.com/riosspedro/rios/internal/assistant"
	"github.com/riosspedro/rios/internal/lookup"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration structure.
type Config struct {
	// Version is the config format version. Currently only "1" is supported.
	Version string `yaml:"version"`

	Log       LogConfig       `yaml:"log"`
	Assistant AssistantConfig `yaml:"assistant"`
	Lookups   LookupConfig    `yaml:"lookups"`
	Memory    MemoryConfig    `yaml:"memory"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Modules maps module IDs to their raw YAML configuration.
	// Keys must match registered module IDs (e.g. "provider.openai").
	Modules map[string]yaml.Node `yaml:"modules"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Debug lowers the log level to DEBUG. The DEBUG environment variable
	// overrides it.
	Debug bool `yaml:"debug"`

	// File, when set, receives a copy of every log line.
	File string `yaml:"file"`
}

// AssistantConfig configures the LLM completion path.
type AssistantConfig struct {
	SystemPrompt string   `yaml:"system_prompt"`
	Temperature  *float64 `yaml:"temperature"`

	// HistoryWindow is how many stored turns are sent upstream.
	HistoryWindow int `yaml:"history_window"`

	// OrgKeywords trigger the warm-greeting rewrite when found in a message.
	OrgKeywords []string `yaml:"org_keywords"`

	// OrgName is the organization named in the greeting instruction.
	OrgName string `yaml:"org_name"`
}

// LookupConfig configures the external data adapters.
type LookupConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	GeocodeURL  string        `yaml:"geocode_url"`
	ForecastURL string        `yaml:"forecast_url"`
	CurrencyURL string        `yaml:"currency_url"`
	CryptoURL   string        `yaml:"crypto_url"`
}

// Memory scopes.
const (
	ScopeShared  = "shared"
	ScopeSession = "session"
)

// MemoryConfig configures conversation memory.
type MemoryConfig struct {
	// Scope is "shared" (one conversation for the whole process) or
	// "session" (one conversation per caller-supplied session ID).
	Scope string `yaml:"scope"`
}

// TelemetryConfig configures tracing export.
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`

	// OTLPEndpoint is the host:port of an OTLP/HTTP collector. Empty
	// disables export.
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	Insecure     bool   `yaml:"insecure"`
}

// Defaults used when fields are left empty.
const (
	DefaultSystemPrompt  = assistant.DefaultSystemPrompt
	DefaultTemperature   = assistant.DefaultTemperature
	DefaultHistoryWindow = assistant.DefaultHistoryWindow
	DefaultOrgName       = assistant.DefaultOrgName
	DefaultLookupTimeout = lookup.DefaultTimeout
	DefaultGeocodeURL    = lookup.DefaultGeocodeURL
	DefaultForecastURL   = lookup.DefaultForecastURL
	DefaultCurrencyURL   = lookup.DefaultCurrencyURL
	DefaultCryptoURL     = lookup.DefaultCryptoURL
	DefaultServiceName   = "rios"
)

// Defaults fills zero values with the built-in defaults.
func (c *Config) Defaults() {
	a := &c.Assistant
	if a.SystemPrompt == "" {
		a.SystemPrompt = DefaultSystemPrompt
	}
	if a.Temperature == nil {
		t := DefaultTemperature
		a.Temperature = &t
	}
	if a.HistoryWindow == 0 {
		a.HistoryWindow = DefaultHistoryWindow
	}
	if a.OrgKeywords == nil {
		a.OrgKeywords = append([]string(nil), assistant.DefaultOrgKeywords...)
	}
	if a.OrgName == "" {
		a.OrgName = DefaultOrgName
	}

	l := &c.Lookups
	if l.Timeout == 0 {
		l.Timeout = DefaultLookupTimeout
	}
	if l.GeocodeURL == "" {
		l.GeocodeURL = DefaultGeocodeURL
	}
	if l.ForecastURL == "" {
		l.ForecastURL = DefaultForecastURL
	}
	if l.CurrencyURL == "" {
		l.CurrencyURL = DefaultCurrencyURL
	}
	if l.CryptoURL == "" {
		l.CryptoURL = DefaultCryptoURL
	}

	if c.Memory.Scope == "" {
		c.Memory.Scope = ScopeShared
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
}
