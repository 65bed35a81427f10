package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/di"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

func main() {
	flags := di.ParseFlags()
	if flags.InputFile == "" {
		fmt.Println("Usage: lead-scorer -file leads.csv [-out scored.csv] [flags]")
		os.Exit(2)
	}

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	if err := container.Invoke(func(logger *zap.Logger, runner ports.BatchRunner) error {
		defer logger.Sync()
		_, err := runner.RunOnce(context.Background(), flags.InputFile)
		return err
	}); err != nil {
		fmt.Printf("Scoring failed: %v\n", err)
		os.Exit(1)
	}
}
