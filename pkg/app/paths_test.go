package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveConfigPath_XDGConfigHome(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "rios")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	cfgPath := filepath.Join(cfgDir, "rios.yaml")
	if err := os.WriteFile(cfgPath, []byte("version: \"1\""), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", dir)

	got, ok := ResolveConfigPath()
	if !ok {
		t.Fatal("config not found")
	}
	if got != cfgPath {
		t.Errorf("got %q, want %q", got, cfgPath)
	}
	if DefaultConfigPath() != cfgPath {
		t.Errorf("DefaultConfigPath() = %q, want %q", DefaultConfigPath(), cfgPath)
	}
}

// chdirTemp moves into an empty directory for the rest of the test.
func chdirTemp(t *testing.T) {
	t.Helper()
	origDir, _ := os.Getwd()
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origDir) })
}

func TestResolveConfigPath_NotFound(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/path")
	chdirTemp(t)

	if path, ok := ResolveConfigPath(); ok {
		t.Errorf("found %q, want nothing", path)
	}
}

func TestResolveConfigPath_WorkingDirectory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/path")
	chdirTemp(t)
	if err := os.WriteFile("rios.yaml", []byte("version: \"1\""), 0o644); err != nil {
		t.Fatal(err)
	}

	path, ok := ResolveConfigPath()
	if !ok || path != "rios.yaml" {
		t.Errorf("ResolveConfigPath() = %q, %v; want rios.yaml", path, ok)
	}
}

func TestLoadConfig_EmbeddedDefault(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/nonexistent/path")
	chdirTemp(t)

	cfg, path, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for the embedded default", path)
	}
	if cfg.Version != "1" {
		t.Errorf("version = %q", cfg.Version)
	}
	if _, ok := cfg.Modules["provider.openai"]; !ok {
		t.Error("embedded default lacks provider.openai")
	}
}

func TestDefaultDataDir_XDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	if got, want := DefaultDataDir(), "/custom/data/rios"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDefaultDataDir_Fallback(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	home, _ := os.UserHomeDir()
	if got, want := DefaultDataDir(), filepath.Join(home, ".local", "share", "rios"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
