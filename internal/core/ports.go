package core

import (
	"context"
)

// Classifier defines the interface for scoring a feature vector against a
// trained model. Implementations must be safe for concurrent use and must
// validate the vector against their trained schema before scoring.
type Classifier interface {
	// Score maps a feature vector to a 0-100 score with per-feature
	// contributions. Returns a SchemaMismatchError when the vector does
	// not match the trained schema, ErrModelUnavailable when no artifact
	// is loaded.
	Score(ctx context.Context, features *FeatureVector) (*Prediction, error)

	// Info describes the currently loaded artifact.
	Info() ModelInfo
}

// ScoreCache defines the interface for caching scoring outcomes between
// batches.
type ScoreCache interface {
	// Get retrieves a cached entry by lead fingerprint. Returns
	// ErrCacheMiss when no live entry exists.
	Get(ctx context.Context, fingerprint string) (*ScoreCacheEntry, error)

	// Set stores a cache entry.
	Set(ctx context.Context, entry *ScoreCacheEntry) error

	// Delete removes a cache entry.
	Delete(ctx context.Context, fingerprint string) error

	// Cleanup removes expired entries.
	Cleanup(ctx context.Context) error
}
