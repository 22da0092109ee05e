// ABOUTME: Serve command starts the HTTP API server
// ABOUTME: Runs until interrupted, then drains in-flight requests
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tessellate-systems/lattice/internal/auth"
	"github.com/tessellate-systems/lattice/internal/server"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start the HTTP API server.

Serves the ingestion endpoints, collection views, 2D projections,
uploaded media files, and the admin session API.

Examples:
  lattice serve
  lattice serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from LATTICE_LISTEN_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := buildApp()
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.cfg.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	log, err := server.NewLogger(a.cfg.Mode)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync()

	authService, err := auth.NewService(auth.Config{
		APIKey:        a.cfg.APIKey,
		AdminUsername: a.cfg.AdminUsername,
		AdminPassword: a.cfg.AdminPassword,
		SessionSecret: a.cfg.SessionSecret,
		SessionTTL:    a.cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("initializing auth: %w", err)
	}

	router := server.NewRouter(log, a.cfg.Mode, a.pipeline, a.collections, authService, a.blobs)
	srv := server.New(log, addr, router)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
