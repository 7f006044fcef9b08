package gateway

import "time"

// Config holds HTTP gateway configuration.
type Config struct {
	Bind string `yaml:"bind"`

	// CORSOrigins are the browser origins allowed to call the API with
	// credentials. The same list gates websocket upgrades.
	CORSOrigins []string `yaml:"cors_origins"`

	// MaxBodyBytes caps a /chat request body and a websocket frame.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DefaultCORSOrigins is the local web front end.
var DefaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8000"
	}
	if c.CORSOrigins == nil {
		c.CORSOrigins = append([]string(nil), DefaultCORSOrigins...)
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 1 << 20
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	// Must outlive one LLM completion.
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}
