package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/opencampus/seatmap/internal/config"
	"github.com/opencampus/seatmap/internal/engine"
	"github.com/opencampus/seatmap/internal/feed"
	"github.com/opencampus/seatmap/internal/metrics"
	"github.com/opencampus/seatmap/internal/server"
	"github.com/opencampus/seatmap/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("seatmap server starting")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// Open the snapshot store
	db, err := store.New(cfg.GetString("store.path"))
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer db.Close()
	snapshots := store.NewSnapshotRepository(db)

	// Feed client
	source := feed.NewHTTPSource(
		cfg.GetString("feed.surveys_url"),
		cfg.GetString("feed.locations_url"),
		cfg.GetFloat64("feed.requests_per_second"),
		logger,
	)

	m := metrics.New()
	eng := engine.New(source, logger,
		engine.WithSnapshots(snapshots),
		engine.WithMetrics(m),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Serve last-known-good data while the first fetch is in flight.
	if err := eng.WarmFromSnapshot(ctx); err != nil {
		logger.Warn("snapshot warm-up failed", zap.Error(err))
	}

	go func() {
		if err := eng.Refresh(ctx); err != nil {
			logger.Warn("initial refresh failed", zap.Error(err))
		}
	}()

	// Periodic refresh
	interval := cfg.GetDuration("refresh.interval")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := eng.Refresh(ctx); err != nil {
					logger.Warn("periodic refresh failed", zap.Error(err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start HTTP server
	addr := cfg.GetString("server.host") + ":" + cfg.GetString("server.port")
	if addr == ":" {
		addr = "0.0.0.0:8080"
	}
	srv := server.New(addr, eng, m, logger)

	// Start server in background
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	logger.Info("seatmap server ready",
		zap.String("addr", addr),
		zap.Duration("refresh_interval", interval),
	)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh

	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("seatmap server stopped")
}
