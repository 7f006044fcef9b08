package app

import (
	"os"
	"path/filepath"

	"github.com/riosspedro/rios/internal/config"
)

// ResolveConfigPath searches for a config file in standard locations and
// reports whether one was found.
// Search order: $XDG_CONFIG_HOME/rios/rios.yaml → ~/.config/rios/rios.yaml → ./rios.yaml
func ResolveConfigPath() (string, bool) {
	for _, path := range configCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// DefaultConfigPath is where `rios config init` writes a new file.
func DefaultConfigPath() string {
	return configCandidates()[0]
}

func configCandidates() []string {
	var candidates []string
	if xdg, ok := os.LookupEnv("XDG_CONFIG_HOME"); ok && xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, "rios", "rios.yaml"))
	} else if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "rios", "rios.yaml"))
	}
	return append(candidates, "rios.yaml")
}

// LoadConfig loads path, or the first file ResolveConfigPath finds, or
// the embedded default when there is none. It returns the path used,
// empty for the embedded default.
func LoadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		resolved, ok := ResolveConfigPath()
		if !ok {
			cfg, err := config.LoadDefault()
			return cfg, "", err
		}
		path = resolved
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// DefaultDataDir returns the default persistent data directory.
// Uses $XDG_DATA_HOME/rios if set, otherwise ~/.local/share/rios.
func DefaultDataDir() string {
	if dir, ok := os.LookupEnv("XDG_DATA_HOME"); ok && dir != "" {
		return filepath.Join(dir, "rios")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "rios")
}
