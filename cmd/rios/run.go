package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riosspedro/rios/internal/cli"
	"github.com/riosspedro/rios/internal/gateway"
	"github.com/riosspedro/rios/internal/mcpserver"
	"github.com/riosspedro/rios/pkg/app"
	"github.com/spf13/cobra"
)

func chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to Rios AI in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.Build(ctx, app.Params{
				ConfigPath:  configFlag(cmd),
				SkipModules: []string{gateway.ModuleID},
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()
			if err := a.Start(); err != nil {
				return err
			}

			return cli.New(cli.Config{
				Responder: a.Router,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
				Logger:    a.Logger,
			}).Run(ctx)
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP and websocket API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.Build(cmd.Context(), app.Params{
				ConfigPath:  configFlag(cmd),
				WatchConfig: true,
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			if _, ok := a.Config.Modules[gateway.ModuleID]; !ok {
				return fmt.Errorf("serve: module %q is not configured", gateway.ModuleID)
			}
			return a.Run(cmd.Context())
		},
	}
}

func mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the ask tool over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// stdout carries the protocol; logs stay on stderr.
			a, err := app.Build(ctx, app.Params{
				ConfigPath:  configFlag(cmd),
				LogOutput:   cmd.ErrOrStderr(),
				SkipModules: []string{gateway.ModuleID},
			})
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()
			if err := a.Start(); err != nil {
				return err
			}

			err = mcpserver.New(mcpserver.Config{
				Responder: a.Router,
				Version:   version,
				Logger:    a.Logger,
			}).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
