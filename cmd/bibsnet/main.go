package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bibsnet/internal/cli"
	"bibsnet/internal/config"
	"bibsnet/internal/executor"
	"bibsnet/internal/invoker"
	"bibsnet/internal/models"
	"bibsnet/internal/registry"
)

func main() {
	cfg, exitClean, err := cli.Parse(os.Args[1:], os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(models.ExitUsage)
	}
	if exitClean {
		return
	}

	setupLogging(cfg)

	// Setup context with manual signal handling. Cancellation kills the
	// subordinate engine process; there is no partial-result salvage.
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	defer func() {
		signal.Stop(sigChan)
		cancel()
	}()

	go func() {
		sig := <-sigChan
		slog.Info("interrupt received, terminating job", "signal", sig)
		cancel()
	}()

	reg, err := registry.Load(ctx, cfg.ManifestPath)
	if err != nil {
		slog.Error("loading model manifest failed", "manifest", cfg.ManifestPath, "error", err)
		os.Exit(models.ExitCodeFor(err))
	}

	engineEnv := config.LoadEngineEnv()
	orch := executor.New(reg, invoker.New(engineEnv.Environ()))

	record, err := orch.Run(ctx, *cfg)
	if err != nil {
		slog.Error("job failed", "error", err)
		var jobErr *models.JobError
		if errors.As(err, &jobErr) && jobErr.Diagnostics != "" {
			fmt.Fprintln(os.Stderr, jobErr.Diagnostics)
		}
		os.Exit(models.ExitCodeFor(err))
	}

	fmt.Printf("\nSegmentation: %s\n", record.SegmentationPath)
	fmt.Printf("Space: %s\n", record.Space)
	fmt.Printf("Modalities: %v\n", record.Modalities)
	fmt.Printf("Duration: %.2fs\n", record.DurationSec)
}

func setupLogging(cfg *config.RunConfig) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
