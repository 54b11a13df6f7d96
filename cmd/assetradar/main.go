package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ax00z/Asset-Radar/internal/app"
	"github.com/ax00z/Asset-Radar/internal/config"
	"github.com/ax00z/Asset-Radar/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)

	if err := application.Run(ctx); err != nil {
		logger.Error("pipeline stopped", "error", err)
		os.Exit(1)
	}
}
