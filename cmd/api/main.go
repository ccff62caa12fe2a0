package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"privatelives/internal/config"
	"privatelives/internal/infra/db"
	"privatelives/internal/observability/logging"
	"privatelives/internal/observability/tracing"
)

func main() {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := tracing.Init("privatelives-api", cfg.Version)

	// the pool opens on first use; an empty DATABASE_URL only disables the database routes
	database := db.NewProvider(cfg.DatabaseURL, db.ConnectionConfigFromEnv())
	if !database.Configured() {
		logger.Warn("DATABASE_URL not set, /api/news and /api/subscribe will answer 500")
	}
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set, news writes will answer 500")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	components, err := setupServer(ctx, logger, cfg, database)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(ctx, cancel, logger, cfg, components)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracer shutdown failed", slog.Any("error", err))
	}
	if err := database.Close(); err != nil {
		logger.Error("failed to close database", slog.Any("error", err))
	}
}

// initLogger builds the process logger from LOG_LEVEL and LOG_FORMAT and installs it as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger()
	slog.SetDefault(logger)
	return logger
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger, cfg *config.Config, components *ServerComponents) {
	if rl := components.RateLimiter; rl != nil {
		go rl.StartCleanup(ctx, cfg.RateLimit.CleanupEvery, cfg.RateLimit.IdleTTL)
		logger.Info("rate limit cleanup started",
			slog.Duration("interval", cfg.RateLimit.CleanupEvery),
			slog.Duration("idle_ttl", cfg.RateLimit.IdleTTL))
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		// generation and ComfyUI polling may legitimately take this long
		WriteTimeout: cfg.Timeouts.ComfyUI + 10*time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
