package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"recordpager/config"
	_ "recordpager/docs"
	httpdelivery "recordpager/internal/delivery/http"
	"recordpager/internal/delivery/http/controllers"
	"recordpager/internal/delivery/http/middleware"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := applyFlagOverrides(cmd, map[string]string{
				"port":    "PORT",
				"storage": "STORAGE_DRIVER",
			}); err != nil {
				return err
			}
			seedPath, _ := cmd.Flags().GetString("seed")
			return runServe(cmd.Context(), seedPath)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on (overrides PORT)")
	cmd.Flags().String("seed", "", "Seed YAML file applied before serving")
	return cmd
}

func runServe(ctx context.Context, seedPath string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := config.NewLogger()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if seedPath != "" {
		if _, err := applySeedFile(ctx, a, seedPath); err != nil {
			return err
		}
	}

	router := httpdelivery.NewRouter(
		controllers.NewAuthController(logger, a.authSvc),
		controllers.NewCollectionController(logger, a.browseSvc),
		a.tokens,
		logger,
	)
	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
