package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"intent-audit/config"
	"intent-audit/internal/bootstrap"
	"intent-audit/internal/httpserver"
	"intent-audit/internal/runindex/repository"
	"intent-audit/internal/runindex/repository/jsonl"
	"intent-audit/internal/runindex/repository/sqlite"
	"intent-audit/internal/runindex/usecase"
	"intent-audit/pkg/log"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return 1
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})
	defer log.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting intent-audit API...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Intent engine
	loaded, err := bootstrap.LoadEngine(ctx, logger, cfg.Intent, nil)
	if err != nil {
		logger.Error(ctx, "Failed to load intent engine: ", err)
		return 1
	}

	// 4. Run index (sqlite mirror optional)
	var mirror repository.MirrorRepository
	if cfg.Run.MirrorPath != "" {
		mirror, err = sqlite.New(ctx, cfg.Run.MirrorPath, logger)
		if err != nil {
			logger.Warnf(ctx, "Run index mirror not available, compare queries disabled: %v", err)
			mirror = nil
		} else {
			defer mirror.Close()
		}
	}
	runs := usecase.New(logger, jsonl.New(cfg.Run.IndexPath, logger), mirror)

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		Predictor:      loaded.Engine,
		Fingerprint:    loaded.Fingerprint,
		Runs:           runs,
		RequestsPerMin: cfg.RateLimit.RequestsPerMin,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return 1
	}

	// 6. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return 1
	}

	logger.Info(ctx, "Server stopped gracefully")
	return 0
}
