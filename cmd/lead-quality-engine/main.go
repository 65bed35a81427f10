package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/di"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	runner ports.BatchRunner,
	cache core.ScoreCache,
	sinks []ports.ResultSink,
	classifier core.Classifier,
) error {
	defer logger.Sync()

	info := classifier.Info()
	logger.Info("Serving model",
		zap.String("version", info.Version),
		zap.String("algorithm", info.Algorithm))

	// Start the runner
	if err := runner.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start batch runner", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the runner
	if err := runner.Stop(); err != nil {
		logger.Error("Failed to stop batch runner", zap.Error(err))
	}

	// Close any sinks that need closing
	for _, sink := range sinks {
		if closer, ok := sink.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close result sink", zap.Error(err))
			}
		}
	}

	// Stop the cache if needed
	if stopper, ok := cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	logger.Info("Shutdown complete")
	return nil
}
