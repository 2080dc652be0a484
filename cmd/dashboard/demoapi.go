package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/terranova-dashboard/internal/adapter/demoapi"
)

func newDemoAPICmd() *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "demo-api",
		Short: "Run the synthetic TerraNova backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("seed") {
				seed = uint64(time.Now().UnixNano())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := demoapi.NewServer(cfg.DemoAPIAddr, seed, clockwork.NewRealClock(), logger)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("demo api error", "error", err)
					stop()
				}
			}()

			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("demo api shutdown error", "error", err)
			}
			logger.Info("demo api stopped")
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for generated scenarios (random when unset)")
	return cmd
}
