package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskdeck/config"
	"taskdeck/internal/command"
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

	// 3. CLI
	cli, err := command.New(logger, cfg)
	if err != nil {
		logger.Error(ctx, "Failed to initialize CLI: ", err)
		os.Exit(1)
	}

	if err := cli.Execute(ctx); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}
