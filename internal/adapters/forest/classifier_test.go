package forest

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/corpus"
)

func trainedModel(t *testing.T) *Model {
	t.Helper()
	ds := corpus.Synthetic(1500, 11)
	model, err := Train(ds, Options{Trees: 25, MaxDepth: 8, Seed: 5})
	require.NoError(t, err)
	return model
}

func TestClassifierWithoutModel(t *testing.T) {
	c := NewClassifier(zap.NewNop())

	assert.Equal(t, core.ModelInfo{}, c.Info())

	fv := &core.FeatureVector{Names: core.FeatureNames(), Values: make([]float64, 5)}
	_, err := c.Score(context.Background(), fv)
	assert.ErrorIs(t, err, core.ErrModelUnavailable)
}

func TestClassifierSchemaMismatch(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	c.Load(trainedModel(t), core.ModelInfo{
		Version:      "forest-test",
		Algorithm:    Algorithm,
		FeatureNames: core.FeatureNames(),
	})

	fv := &core.FeatureVector{
		Names:  []string{"email_quality", "phone_validity"},
		Values: []float64{1, 1},
	}
	_, err := c.Score(context.Background(), fv)
	require.True(t, core.IsSchemaMismatch(err))

	var mismatch *core.SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, core.FeatureNames(), mismatch.Want)
	assert.Equal(t, fv.Names, mismatch.Got)
}

func TestClassifierScore(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	model := trainedModel(t)
	c.Load(model, core.ModelInfo{
		Version:      "forest-test",
		Algorithm:    Algorithm,
		FeatureNames: core.FeatureNames(),
	})

	fv := &core.FeatureVector{
		Names:  core.FeatureNames(),
		Values: []float64{1, 1, 1, 1, 1},
	}
	pred, err := c.Score(context.Background(), fv)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, pred.Score, 0.0)
	assert.LessOrEqual(t, pred.Score, 100.0)

	prob, _ := model.Predict(fv.Values)
	assert.InDelta(t, prob*100, pred.Score, 1e-9)

	require.Len(t, pred.Contributions, len(core.FeatureNames()))
	var abs float64
	for _, w := range pred.Contributions {
		abs += math.Abs(w)
	}
	if abs > 0 {
		assert.InDelta(t, 1.0, abs, 1e-9, "contributions should be L1-normalized")
	}
}

func TestClassifierScoreCanceledContext(t *testing.T) {
	c := NewClassifier(zap.NewNop())
	c.Load(trainedModel(t), core.ModelInfo{
		Version:      "forest-test",
		FeatureNames: core.FeatureNames(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fv := &core.FeatureVector{Names: core.FeatureNames(), Values: make([]float64, 5)}
	_, err := c.Score(ctx, fv)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassifierLoadArtifact(t *testing.T) {
	model := trainedModel(t)
	art, err := artifact.New(Algorithm, core.FeatureNames(), time.Now(), model)
	require.NoError(t, err)

	c := NewClassifier(zap.NewNop())
	require.NoError(t, c.LoadArtifact(art))

	info := c.Info()
	assert.Equal(t, art.Version, info.Version)
	assert.Equal(t, Algorithm, info.Algorithm)
	assert.Equal(t, core.FeatureNames(), info.FeatureNames)

	fv := &core.FeatureVector{
		Names:  core.FeatureNames(),
		Values: []float64{0.8, 0.6, 0.9, 1, 0.7},
	}
	pred, err := c.Score(context.Background(), fv)
	require.NoError(t, err)
	prob, _ := model.Predict(fv.Values)
	assert.InDelta(t, prob*100, pred.Score, 1e-9)
}

func TestClassifierRejectsForeignArtifact(t *testing.T) {
	art, err := artifact.New("linear", core.FeatureNames(), time.Now(), map[string]any{})
	require.NoError(t, err)

	c := NewClassifier(zap.NewNop())
	err = c.LoadArtifact(art)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}
