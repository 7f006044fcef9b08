// Package cli runs the interactive terminal conversation.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

const (
	banner = "=======================================================\n" +
		"  🤖 Bem-vindo ao Rios AI – Assistente Multifuncional  \n" +
		"  Desenvolvido por Pedro Rios\n" +
		"=======================================================\n\n" +
		"Digite sua pergunta. Para sair, escreva: sair\n\n"

	prompt   = "Você: "
	exitWord = "sair"
	goodbye  = "Rios AI: Até mais! 👋"
)

// Responder answers one message. *router.Router satisfies it.
type Responder interface {
	Handle(ctx context.Context, text string) (string, error)
}

// Config holds the REPL dependencies.
type Config struct {
	Responder Responder
	In        io.Reader
	Out       io.Writer
	Logger    *slog.Logger
}

// REPL reads one question per line and prints the reply.
type REPL struct {
	responder Responder
	in        *bufio.Scanner
	out       io.Writer
	logger    *slog.Logger
}

// New creates a REPL.
func New(cfg Config) *REPL {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &REPL{
		responder: cfg.Responder,
		in:        bufio.NewScanner(cfg.In),
		out:       cfg.Out,
		logger:    logger.With("component", "cli"),
	}
}

// Run prints the banner and loops until the user types "sair", the
// input ends or ctx is cancelled. A failed turn is printed and the loop
// goes on.
func (r *REPL) Run(ctx context.Context) error {
	if _, err := io.WriteString(r.out, banner); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(r.out, prompt)

		if !r.in.Scan() {
			fmt.Fprintln(r.out)
			return r.in.Err()
		}
		line := strings.TrimSpace(r.in.Text())

		switch {
		case line == "":
			continue
		case strings.ToLower(line) == exitWord:
			fmt.Fprintln(r.out, goodbye)
			return nil
		}

		reply, err := r.responder.Handle(ctx, line)
		if err != nil {
			r.logger.Error("turn failed", "error", err)
			fmt.Fprintf(r.out, "Rios AI: ⚠️ Não consegui responder agora (%v)\n\n", err)
			continue
		}
		fmt.Fprintf(r.out, "Rios AI: %s\n\n", reply)
	}
}
