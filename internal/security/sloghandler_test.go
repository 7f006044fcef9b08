package security

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *bytes.Buffer, r *Redactor) *slog.Logger {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewRedactingHandler(inner, r))
}

func TestRedactingHandler_RedactsMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestLogger(&buf, NewRedactor())

	logger.Info("key is sk-abcdefghijklmnopqrstuvwxyz")

	output := buf.String()
	if strings.Contains(output, "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("secret found in log output: %s", output)
	}
	if !strings.Contains(output, RedactPlaceholder) {
		t.Errorf("expected placeholder in output: %s", output)
	}
}

func TestRedactingHandler_RedactsAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRedactor()
	r.AddLiteral("super-secret-value")
	logger := newTestLogger(&buf, r)

	logger.Info("test", "token", "super-secret-value", "safe", "visible")

	output := buf.String()
	if strings.Contains(output, "super-secret-value") {
		t.Errorf("secret found in attributes: %s", output)
	}
	if !strings.Contains(output, "visible") {
		t.Errorf("safe value missing from output: %s", output)
	}
}

func TestRedactingHandler_WithAttrsAndGroup(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	r := NewRedactor()
	r.AddLiteral("persistent-secret")
	logger := newTestLogger(&buf, r).With("api_key", "persistent-secret").WithGroup("provider")

	logger.Info("test message", "detail", "persistent-secret")

	output := buf.String()
	if strings.Contains(output, "persistent-secret") {
		t.Errorf("secret found in output: %s", output)
	}
	if !strings.Contains(output, "provider.detail") {
		t.Errorf("group prefix missing: %s", output)
	}
}

func TestRedactingHandler_RedactsErrors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := newTestLogger(&buf, NewRedactor())

	logger.Error("request failed", "error", errors.New("401 for sk-abcdefghijklmnopqrstuvwxyz"))

	if strings.Contains(buf.String(), "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Errorf("secret leaked through error attr: %s", buf.String())
	}
}

func TestFanoutHandler_WritesToAll(t *testing.T) {
	t.Parallel()

	var console, file bytes.Buffer
	h := NewFanoutHandler(
		slog.NewTextHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	logger := slog.New(h).With("component", "test")

	logger.Debug("debug only")
	logger.Info("everywhere")

	if strings.Contains(console.String(), "debug only") {
		t.Errorf("console should not receive debug: %s", console.String())
	}
	if !strings.Contains(file.String(), "debug only") {
		t.Errorf("file should receive debug: %s", file.String())
	}
	for name, out := range map[string]string{"console": console.String(), "file": file.String()} {
		if !strings.Contains(out, "everywhere") || !strings.Contains(out, "component=test") {
			t.Errorf("%s missing info record: %s", name, out)
		}
	}
}
