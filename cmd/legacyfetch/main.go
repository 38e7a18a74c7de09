// Package main runs the legacy site catalog fetcher.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"legacyfetch/internal/app"
	"legacyfetch/internal/config"
	"legacyfetch/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	log := logger.New()
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Shutdown signal received")
		cancel()
	}()

	application, err := app.New(cfg, log)
	if err != nil {
		log.Fatal("Failed to create application", zap.Error(err))
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		log.Error("Crawl run failed", zap.Error(err))
		os.Exit(1)
	}
}
