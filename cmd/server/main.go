package main

import (
	"context"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/honeycarbs/job-portal/internal/app"
	"github.com/honeycarbs/job-portal/internal/config"
	"github.com/honeycarbs/job-portal/pkg/logging"
	"github.com/honeycarbs/job-portal/pkg/shutdown"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	a, cleanup, err := app.InitializeApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", "err", err)
		os.Exit(1)
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		shutdown.Graceful(
			[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
			shutdownTimeout,
			logger,
			a.Stoppables()...,
		)
	}()

	if err := a.Run(ctx); err != nil {
		logger.Error("server exited with error", "err", err)
		cleanup()
		os.Exit(1)
	}

	<-stopped
	cleanup()
	logger.Info("server stopped")
}
