package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/riosspedro/rios/internal/config"
	"github.com/riosspedro/rios/internal/gateway"
	"github.com/riosspedro/rios/pkg/app"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
	}
	cmd.AddCommand(configCheckCmd(), configInitCmd())
	return cmd
}

func configCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [path]",
		Short: "Validate configuration and load every module",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configFlag(cmd)
			if len(args) == 1 {
				path = args[0]
			}

			a, err := app.Build(cmd.Context(), app.Params{
				ConfigPath: path,
				LogOutput:  io.Discard,
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			out := cmd.OutOrStdout()
			source := a.ConfigPath
			if source == "" {
				source = "embedded default"
			}
			ids := config.Resolve(a.Config)
			fmt.Fprintf(out, "Configuration OK (%s, %d modules)\n", source, len(ids))
			for _, id := range ids {
				fmt.Fprintf(out, "  %s\n", id)
			}
			return nil
		},
	}
}

// initAnswers are the values collected by `rios config init`.
type initAnswers struct {
	APIKey string
	Model  string
	Bind   string
	Scope  string
	Debug  bool
}

func defaultAnswers() initAnswers {
	return initAnswers{
		Model: "gpt-4o-mini",
		Bind:  "127.0.0.1:8000",
		Scope: config.ScopeShared,
	}
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := configFlag(cmd)
			if path == "" {
				path = app.DefaultConfigPath()
			}
			force, _ := cmd.Flags().GetBool("force")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config init: %s already exists (use --force to overwrite)", path)
			}

			answers := defaultAnswers()
			if err := initForm(&answers).Run(); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					return nil
				}
				return err
			}

			data, err := renderConfig(answers)
			if err != nil {
				return err
			}
			if err := writeConfigFile(path, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}

func initForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("OpenAI API key").
				Description("Leave empty to read OPENAI_API_KEY at startup.").
				EchoMode(huh.EchoModePassword).
				Value(&a.APIKey),
			huh.NewSelect[string]().
				Title("Model").
				Options(huh.NewOptions("gpt-4o-mini", "gpt-4o", "gpt-4.1-mini")...).
				Value(&a.Model),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("HTTP bind address").
				Value(&a.Bind).
				Validate(func(s string) error {
					_, err := net.ResolveTCPAddr("tcp", s)
					return err
				}),
			huh.NewSelect[string]().
				Title("Conversation memory").
				Options(
					huh.NewOption("One conversation for everyone", config.ScopeShared),
					huh.NewOption("One conversation per session", config.ScopeSession),
				).
				Value(&a.Scope),
			huh.NewConfirm().
				Title("Enable debug logging?").
				Value(&a.Debug),
		),
	)
}

// renderConfig turns the answers into a config file. An empty API key is
// written as an environment reference.
func renderConfig(a initAnswers) ([]byte, error) {
	key := a.APIKey
	if key == "" {
		key = "${OPENAI_API_KEY}"
	}

	file := map[string]any{
		"version": "1",
		"log":     map[string]any{"debug": a.Debug},
		"memory":  map[string]any{"scope": a.Scope},
		"modules": map[string]any{
			"provider.openai": map[string]any{
				"api_key": key,
				"model":   a.Model,
			},
			gateway.ModuleID: map[string]any{
				"bind":         a.Bind,
				"cors_origins": gateway.DefaultCORSOrigins,
			},
		},
	}

	data, err := yaml.Marshal(file)
	if err != nil {
		return nil, fmt.Errorf("config init: encode: %w", err)
	}
	return data, nil
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("config init: %w", err)
	}
	return nil
}
