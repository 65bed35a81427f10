package ports

import (
	"context"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// ResultSink defines the interface for delivering a scored batch
type ResultSink interface {
	// Write delivers the batch result to the sink's destination
	Write(ctx context.Context, result *core.BatchResult) error
}
