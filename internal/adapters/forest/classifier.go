package forest

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/core"
)

// Algorithm is the artifact tag for this backend.
const Algorithm = "forest"

type snapshot struct {
	model *Model
	info  core.ModelInfo
}

// Classifier serves random-forest inference behind the core classifier
// port. The trained model lives behind an atomic pointer so a reload
// swaps it wholesale and concurrent scorers never observe a half-updated
// state.
type Classifier struct {
	logger *zap.Logger
	state  atomic.Pointer[snapshot]
}

// NewClassifier creates an empty classifier. Score returns
// ErrModelUnavailable until a model is installed.
func NewClassifier(logger *zap.Logger) *Classifier {
	return &Classifier{logger: logger}
}

// LoadArtifact decodes a stored artifact and installs it as the serving
// model.
func (c *Classifier) LoadArtifact(a *artifact.Artifact) error {
	if a.Algorithm != Algorithm {
		return fmt.Errorf("artifact algorithm %q does not match backend %q", a.Algorithm, Algorithm)
	}
	var model Model
	if err := a.DecodeParams(&model); err != nil {
		return fmt.Errorf("failed to decode forest params: %w", err)
	}
	if err := model.Validate(len(a.FeatureNames)); err != nil {
		return fmt.Errorf("artifact %s: %w", a.Version, err)
	}
	c.Load(&model, core.ModelInfo{
		Version:      a.Version,
		Algorithm:    a.Algorithm,
		FeatureNames: append([]string(nil), a.FeatureNames...),
		TrainedAt:    a.TrainedAt,
	})
	return nil
}

// Load installs an already built model, used by the trainer and tests.
func (c *Classifier) Load(model *Model, info core.ModelInfo) {
	c.state.Store(&snapshot{model: model, info: info})
	c.logger.Info("Forest model installed",
		zap.String("version", info.Version),
		zap.Int("trees", len(model.Trees)))
}

// Info returns the metadata of the serving model, or a zero value when
// none is loaded.
func (c *Classifier) Info() core.ModelInfo {
	snap := c.state.Load()
	if snap == nil {
		return core.ModelInfo{}
	}
	return snap.info
}

// Score runs the feature vector through every tree and averages the
// votes into a 0-100 score with per-feature contributions.
func (c *Classifier) Score(ctx context.Context, features *core.FeatureVector) (*core.Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := c.state.Load()
	if snap == nil {
		return nil, core.ErrModelUnavailable
	}
	if err := core.CheckSchema(snap.info.FeatureNames, features); err != nil {
		return nil, err
	}

	prob, contribs := snap.model.Predict(features.Values)
	return &core.Prediction{
		Score:         prob * 100,
		Contributions: core.NormalizeContributions(snap.info.FeatureNames, contribs),
	}, nil
}
