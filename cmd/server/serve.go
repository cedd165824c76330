package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/klauspost/compress/gzhttp"
	"github.com/spf13/cobra"

	"carrest/internal/config"
	"carrest/internal/domain/auth"
	v1 "carrest/internal/infrastructure/http/v1"
	"carrest/pkg/logger"
)

// serveCmd runs the HTTP server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(logger.WithLogger(ctx, log), cfg, log)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	secret, err := auth.DecodeSecret(cfg.Auth.JWTSecret)
	if err != nil {
		return nil, err
	}

	jwtConfig := auth.DefaultJWTConfig(secret)
	jwtConfig.Issuer = cfg.Auth.Issuer
	jwtConfig.AccessTokenTTL = cfg.Auth.TokenTTL
	return auth.NewJWTService(jwtConfig), nil
}

func runServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Infow("starting carrest server",
		"env", cfg.Server.Env,
		"driver", cfg.Database.Driver,
	)

	// --- JWT Service ---
	jwtService, err := newJWTService(cfg)
	if err != nil {
		return err
	}

	// --- Storage and services ---
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	// --- Router ---
	var handler http.Handler = v1.NewRouter(a.routerConfig(cfg, log, jwtService))
	if cfg.Server.Gzip {
		handler = gzhttp.GzipHandler(handler)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// --- Graceful shutdown ---
	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")

	// Give outstanding requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
