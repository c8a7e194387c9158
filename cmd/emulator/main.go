package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/config"
	"taskdeck/internal/emulator"
	"taskdeck/pkg/log"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		os.Exit(1)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting taskdeck emulator...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Emulator server
	srv, err := emulator.New(logger, emulator.Config{
		Port:            cfg.Emulator.Port,
		Mode:            cfg.Emulator.Mode,
		JWTSecret:       cfg.Emulator.JWTSecret,
		TokenTTL:        cfg.Emulator.TokenTTL,
		RateLimitPerMin: cfg.Emulator.RateLimitPerMin,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize emulator: ", err)
		os.Exit(1)
	}

	// 4. Run
	if err := srv.Run(ctx); err != nil && err != http.ErrServerClosed {
		logger.Error(ctx, "Failed to run emulator: ", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Emulator stopped gracefully")
}
