package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/tmiyoshi/launchdeck/internal/config"
	"github.com/tmiyoshi/launchdeck/internal/launcher"
	"github.com/tmiyoshi/launchdeck/internal/logging"
	"github.com/tmiyoshi/launchdeck/internal/metrics"
	"github.com/tmiyoshi/launchdeck/internal/registry"
	"github.com/tmiyoshi/launchdeck/internal/server"
	"github.com/tmiyoshi/launchdeck/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupStores(cfg *config.Config) (*registry.Store, *registry.PIDStore) {
	store, err := registry.NewStore(cfg.ConfigFile)
	if err != nil {
		slog.Error("Failed to open app registry", "path", cfg.ConfigFile, "error", err)
		os.Exit(1)
	}

	pids, err := registry.NewPIDStore(cfg.PIDFile)
	if err != nil {
		slog.Error("Failed to open PID store", "path", cfg.PIDFile, "error", err)
		os.Exit(1)
	}

	return store, pids
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	// Initialize structured logging
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	info := version.Get()
	metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.BuildTime, info.GoVersion).Set(1)

	store, pids := setupStores(cfg)
	launchSvc := launcher.New(store, pids, clock)

	srv, err := server.NewServer(cfg, store, launchSvc)
	if err != nil {
		slog.Error("Failed to create server", "error", err)
		os.Exit(1)
	}

	done := runGracefulShutdown(srv)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
