package ports

import (
	"context"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// BatchRunner defines the interface for driving scoring runs
type BatchRunner interface {
	// Start begins serving scoring runs until Stop is called
	Start(ctx context.Context) error

	// Stop shuts the runner down and waits for in-flight work
	Stop() error

	// RunOnce scores a single input file and writes the scored copy
	RunOnce(ctx context.Context, inputPath string) (*core.BatchResult, error)
}
