package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/tokokita/ecommerce_backend/internal/adapters/notification"
	"github.com/tokokita/ecommerce_backend/internal/core/services"
	"github.com/tokokita/ecommerce_backend/internal/handlers"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/tokokita/ecommerce_backend/internal/platform/metrics"
	"github.com/tokokita/ecommerce_backend/internal/utils"
	"github.com/ulule/limiter/v3"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  `Migrate the database, then serve the JSON API until SIGINT or SIGTERM.`,
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.RegisterMetrics(prometheus.DefaultRegisterer)

	repos, err := openRepositories(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer repos.Close()

	authLimiter, closeLimiter, err := newAuthLimiter(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	analytics := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer analytics.Close()

	notifier, err := notification.NewSenderFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	container := services.NewServiceContainer(cfg, repos, notifier, analytics)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handlers.NewRouter(cfg, container, handlers.RouterOptions{
		Logger:      logger,
		AuthLimiter: authLimiter,
		Analytics:   analytics,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DatabaseDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// newAuthLimiter builds the per-IP limiter for the credential endpoints, shared through
// Redis when REDIS_URL is set. An empty LOGIN_RATE_LIMIT disables throttling.
func newAuthLimiter(cfg *config.Config, logger *slog.Logger) (*limiter.Limiter, func(), error) {
	noop := func() {}
	if cfg.LoginRateLimit == "" {
		logger.Warn("LOGIN_RATE_LIMIT is empty, auth endpoints are not throttled")
		return nil, noop, nil
	}

	var client *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		client = redis.NewClient(opts)
	}

	l, err := middleware.NewRateLimiter(cfg.LoginRateLimit, "auth", client)
	if err != nil {
		if client != nil {
			_ = client.Close()
		}
		return nil, noop, err
	}
	if client == nil {
		return l, noop, nil
	}
	logger.Info("Rate limiter backed by Redis", slog.String("addr", client.Options().Addr))
	return l, func() { _ = client.Close() }, nil
}
