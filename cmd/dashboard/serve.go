package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpadapter "github.com/couchcryptid/terranova-dashboard/internal/adapter/http"
	"github.com/couchcryptid/terranova-dashboard/internal/observability"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, cfg, "terranova-dashboard")
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, a.pipeline, a.mapView, a.panel, a.client.BaseURL(), logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Initial catalog and scenario load.
	go a.pipeline.Start(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	a.pipeline.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
