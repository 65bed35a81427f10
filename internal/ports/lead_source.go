package ports

import (
	"context"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// LeadSource defines the interface for reading a batch of raw leads
type LeadSource interface {
	// Read loads every lead from the source in input order
	Read(ctx context.Context) ([]core.RawLead, error)

	// Header returns the source column order after a successful Read
	Header() []string
}
