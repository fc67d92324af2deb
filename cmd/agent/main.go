package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"page-pilot/internal/di"
	"page-pilot/internal/infrastructure/env"
)

func main() {
	envService := env.NewService()
	cfg := di.ConfigFromEnv(envService)

	container, err := di.NewContainer(cfg)
	if err != nil {
		log.Fatalf("init failed: %v", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := container.Inspect.Serve(ctx, cfg.InspectAddr); err != nil {
			container.Logger.Warn("inspect server stopped", "error", err)
		}
	}()

	if url := envService.Get("START_URL"); url != "" {
		if err := container.Browser.Navigate(ctx, url); err != nil {
			container.Logger.Error("initial navigation failed", "url", url, "error", err)
		}
	}

	container.Logger.Info("session started", "name", cfg.SessionName)
	if err := container.Session.Run(ctx); err != nil {
		container.Logger.Error("session ended with error", "error", err)
		os.Exit(1)
	}
	container.Logger.Info("session ended")
}
