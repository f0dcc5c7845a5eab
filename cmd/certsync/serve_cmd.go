package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tomasfarkasovsky/trailhead/api"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only statistics API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(root)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.cfg.ValidateAPI(); err != nil {
				return withCode(exitConfig, err)
			}
			if addr != "" {
				a.cfg.API.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := a.openStore(ctx, true); err != nil {
				return err
			}

			api.SetLogger(a.logger)
			server := &http.Server{
				Addr:         a.cfg.API.Addr,
				Handler:      api.SetupRoutes(a.cfg.API, version, buildTime, a.repo, a.db),
				ReadTimeout:  a.cfg.API.Timeout,
				WriteTimeout: a.cfg.API.Timeout,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server starting", zap.String("addr", a.cfg.API.Addr), zap.String("build_time", buildTime))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return withCode(exitRun, err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return withCode(exitRun, err)
			}
			a.logger.Info("server exited")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides api.addr)")
	return cmd
}
