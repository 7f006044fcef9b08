package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/riosspedro/rios/internal/config"
	"github.com/riosspedro/rios/internal/security"
)

// NewLogger builds the process logger: a text handler on w, plus a second
// one on cfg.File when set, behind a redacting handler. The returned
// func closes the log file.
func NewLogger(cfg config.LogConfig, w io.Writer, redactor *security.Redactor) (*slog.Logger, func() error, error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if cfg.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	closeFn := func() error { return nil }

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("app: open log file: %w", err)
		}
		handler = security.NewFanoutHandler(handler, slog.NewTextHandler(f, opts))
		closeFn = f.Close
	}

	return slog.New(security.NewRedactingHandler(handler, redactor)), closeFn, nil
}
