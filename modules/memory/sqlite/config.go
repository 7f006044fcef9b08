package sqlite

import "fmt"

const (
	defaultBusyTimeout = 5000

	// MemoryPath keeps the database in process memory. History is lost
	// when the process exits.
	MemoryPath = ":memory:"
)

// Config holds the SQLite memory module configuration.
type Config struct {
	// Path is the database file path. Defaults to MemoryPath.
	Path string `yaml:"path"`

	// WAL enables WAL journal mode for file databases. Defaults to true.
	WAL *bool `yaml:"wal"`

	// BusyTimeout is the milliseconds to wait on a busy lock. Defaults to 5000.
	BusyTimeout int `yaml:"busy_timeout"`
}

func (c *Config) defaults() {
	if c.Path == "" {
		c.Path = MemoryPath
	}
	if c.WAL == nil {
		t := true
		c.WAL = &t
	}
	if c.BusyTimeout == 0 {
		c.BusyTimeout = defaultBusyTimeout
	}
}

func (c *Config) inMemory() bool {
	return c.Path == MemoryPath
}

func (c *Config) walEnabled() bool {
	return !c.inMemory() && (c.WAL == nil || *c.WAL)
}

func (c *Config) validate() error {
	if c.BusyTimeout < 0 {
		return fmt.Errorf("sqlite: busy_timeout must be non-negative, got %d", c.BusyTimeout)
	}
	return nil
}
