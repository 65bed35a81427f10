package ports

import (
	"github.com/leadlab/lead-quality-engine/internal/artifact"
)

// ModelReloader defines the interface for hot-swapping the serving model
type ModelReloader interface {
	// LoadArtifact installs a stored artifact as the serving model
	LoadArtifact(a *artifact.Artifact) error
}
