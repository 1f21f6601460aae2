package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"legal-dashboard/infrastructure/config"
	"legal-dashboard/infrastructure/di"
)

func main() {
	addr := pflag.String("addr", "", "listen address, overrides SERVER_ADDRESS")
	configDir := pflag.String("config-dir", envOr("CONFIG_DIR", config.DefaultConfigDir), "directory holding the YAML config overlays")
	environment := pflag.String("env", envOr("ENVIRONMENT", config.Development), "deployment environment")
	pflag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	loader := config.NewLoader(*configDir, *environment)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.ServerAddress = *addr
	}

	// Initialize dependency container
	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	logger := container.Logger

	// Log level changes in the overlays apply without a restart
	watcher, err := config.NewWatcher(loader, cfg, logger)
	if err != nil {
		logger.Warn("Config hot reload disabled", zap.Error(err))
	} else {
		watcher.OnChange(func(next *config.Config) {
			level, err := zapcore.ParseLevel(next.LogLevel)
			if err != nil {
				logger.Warn("Ignoring invalid log level", zap.String("level", next.LogLevel))
				return
			}
			container.LogLevel.SetLevel(level)
		})
		defer watcher.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           container.Router.Setup(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.Strings("config_sources", cfg.LoadedFrom),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()

	shutdown(shutdownCtx, srv, container.Shutdown, logger)
	_ = logger.Sync()
}

// shutdown stops accepting requests, then drains in-flight background work
func shutdown(ctx context.Context, srv *http.Server, drain func(context.Context) error, logger *zap.Logger) {
	logger.Info("Shutting down server...")

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	if err := drain(ctx); err != nil {
		logger.Warn("Shutdown incomplete", zap.Error(err))
	}

	logger.Info("Server stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
