package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cristianoliveira/rosterdesk/internal/colors"
	"github.com/cristianoliveira/rosterdesk/internal/config"
	"github.com/cristianoliveira/rosterdesk/internal/devserver"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
)

// NewServeCmd creates the serve command.
func NewServeCmd(opener backendOpener) *cobra.Command {
	if opener == nil {
		panic("NewServeCmd: opener dependency cannot be nil")
	}

	var seed bool
	var addr string
	var token string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the local database over the roster API",
		Long: `Serve the SQLite database over the same REST API the http backend speaks.

The listen address defaults to listen_addr and the bearer token to
api_token. An empty token disables authentication.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := opener.Open()
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if seed {
				if err := b.Seed(ctx); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}
			if addr == "" {
				addr = config.Get("listen_addr", "127.0.0.1:8080")
			}
			if !cmd.Flags().Changed("token") {
				token = config.Get("api_token", "")
			}
			if token == "" {
				colors.Warning("serving without authentication")
			}

			logger := logging.GetGlobal()
			colors.Info(fmt.Sprintf("Serving on http://%s/api (viewer %d)", addr, b.ViewerID()))
			return devserver.Serve(ctx, addr, devserver.NewRouter(b, token, logger), logger)
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "Fill an empty database with demo data first")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default listen_addr)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token clients must send (default api_token)")
	return cmd
}

// NewSeedCmd creates the seed command.
func NewSeedCmd(opener backendOpener) *cobra.Command {
	if opener == nil {
		panic("NewSeedCmd: opener dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty local database with demo data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := opener.Open()
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Seed(cmd.Context()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			colors.Success("Database seeded")
			return nil
		},
	}
}
