package core

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestAppContext_ForModule(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := NewAppContext(logger, "/data")
	child := ctx.ForModule("provider.openai")

	child.Logger.Info("hello")

	if !bytes.Contains(buf.Bytes(), []byte("provider.openai")) {
		t.Errorf("expected child logger to contain module ID, got: %s", buf.String())
	}
}

func TestAppContext_ServicesSharedAcrossScopes(t *testing.T) {
	ctx := NewAppContext(nil, "/data")
	child := ctx.ForModule("memory.sqlite")
	child.RegisterService("memory.history", 42)

	svc, ok := ctx.WithModuleConfigs(nil).Service("memory.history")
	if !ok {
		t.Fatal("service registered on child scope not visible from parent")
	}
	if svc.(int) != 42 {
		t.Errorf("service = %v, want 42", svc)
	}

	if _, ok := ctx.Service("missing"); ok {
		t.Error("expected missing service lookup to fail")
	}
}

func TestAppContext_ServiceNames(t *testing.T) {
	ctx := NewAppContext(nil, "/data")
	ctx.RegisterService("router", 1)
	ctx.ForModule("provider.openai").RegisterService("provider.openai", 2)
	ctx.RegisterService("assistant", 3)

	got := ctx.ServiceNames()
	want := []string{"assistant", "provider.openai", "router"}
	if len(got) != len(want) {
		t.Fatalf("ServiceNames() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ServiceNames()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAppContext_LoadModule(t *testing.T) {
	t.Cleanup(resetRegistry)

	provisioned := false
	validated := false

	RegisterModule(&trackingModule{
		id:          "test.loadmod",
		onProvision: func() { provisioned = true },
		onValidate:  func() { validated = true },
	})

	ctx := NewAppContext(nil, "/data")
	mod, err := ctx.LoadModule("test.loadmod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mod == nil {
		t.Fatal("expected non-nil module")
	}
	if !provisioned {
		t.Error("expected Provision to be called")
	}
	if !validated {
		t.Error("expected Validate to be called")
	}
}

func TestAppContext_LoadModule_Errors(t *testing.T) {
	tests := []struct {
		name    string
		module  Module
		load    ModuleID
		wantErr string
	}{
		{"unknown id", nil, "does.not.exist", "unknown module"},
		{"provision", &trackingModule{id: "test.provfail", provisionErr: errors.New("provision boom")}, "test.provfail", "provision boom"},
		{"validate", &trackingModule{id: "test.valfail", validateErr: errors.New("validate boom")}, "test.valfail", "validate boom"},
		{"configure", &configurableMod{id: "test.cfgfail", configErr: errors.New("bad config")}, "test.cfgfail", "bad config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(resetRegistry)
			if tt.module != nil {
				RegisterModule(tt.module)
			}

			_, err := NewAppContext(nil, "/data").LoadModule(string(tt.load))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadModule(%q) error = %v, want containing %q", tt.load, err, tt.wantErr)
			}
		})
	}
}

func TestAppContext_LoadModule_WithConfig(t *testing.T) {
	t.Cleanup(resetRegistry)

	configured := false
	receivedKey := ""
	RegisterModule(&configurableMod{
		id:          "test.cfgmod",
		configured:  &configured,
		receivedKey: &receivedKey,
	})

	var node yaml.Node
	if err := yaml.Unmarshal([]byte("key: hello"), &node); err != nil {
		t.Fatal(err)
	}

	ctx := NewAppContext(nil, "/data").WithModuleConfigs(map[string]yaml.Node{
		"test.cfgmod": *node.Content[0],
	})

	if _, err := ctx.LoadModule("test.cfgmod"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !configured {
		t.Error("expected Configure to be called")
	}
	if receivedKey != "hello" {
		t.Errorf("receivedKey = %q, want %q", receivedKey, "hello")
	}
}

func TestAppContext_LoadModule_ConfigurableWithoutEntry(t *testing.T) {
	t.Cleanup(resetRegistry)

	configured := false
	receivedKey := "unset"
	RegisterModule(&configurableMod{
		id:          "test.noentry",
		configured:  &configured,
		receivedKey: &receivedKey,
	})

	ctx := NewAppContext(nil, "/data")
	if _, err := ctx.LoadModule("test.noentry"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !configured {
		t.Error("Configure should run with an empty node when no entry exists")
	}
	if receivedKey != "" {
		t.Errorf("receivedKey = %q, want empty", receivedKey)
	}
}

// trackingModule is a test helper that tracks lifecycle calls.
type trackingModule struct {
	id           ModuleID
	onProvision  func()
	onValidate   func()
	provisionErr error
	validateErr  error
}

func (m *trackingModule) ModuleInfo() ModuleInfo {
	id := m.id
	return ModuleInfo{
		ID: id,
		New: func() Module {
			return &trackingModule{
				id:           id,
				onProvision:  m.onProvision,
				onValidate:   m.onValidate,
				provisionErr: m.provisionErr,
				validateErr:  m.validateErr,
			}
		},
	}
}

func (m *trackingModule) Provision(_ *AppContext) error {
	if m.onProvision != nil {
		m.onProvision()
	}
	return m.provisionErr
}

func (m *trackingModule) Validate() error {
	if m.onValidate != nil {
		m.onValidate()
	}
	return m.validateErr
}

// configurableMod is a test module that implements Configurable.
type configurableMod struct {
	id          ModuleID
	configured  *bool
	receivedKey *string
	configErr   error
}

func (m *configurableMod) ModuleInfo() ModuleInfo {
	id := m.id
	return ModuleInfo{
		ID: id,
		New: func() Module {
			return &configurableMod{
				id:          id,
				configured:  m.configured,
				receivedKey: m.receivedKey,
				configErr:   m.configErr,
			}
		},
	}
}

func (m *configurableMod) Configure(node *yaml.Node) error {
	if m.configErr != nil {
		return m.configErr
	}
	if m.configured != nil {
		*m.configured = true
	}
	if m.receivedKey != nil {
		var parsed struct {
			Key string `yaml:"key"`
		}
		if err := node.Decode(&parsed); err != nil {
			return err
		}
		*m.receivedKey = parsed.Key
	}
	return nil
}
