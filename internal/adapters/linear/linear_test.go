package linear

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

// thresholdDataset has one informative feature with labels split at 0.5
// and one constant column that should end up with zero weight.
func thresholdDataset(n int) *corpus.Dataset {
	ds := &corpus.Dataset{FeatureNames: []string{"signal", "filler"}}
	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)
		ds.Rows = append(ds.Rows, []float64{x, 0.5})
		ds.Labels = append(ds.Labels, x > 0.5)
	}
	return ds
}

func TestTrainIsDeterministic(t *testing.T) {
	ds := corpus.Synthetic(600, 3)

	first, err := Train(ds, DefaultOptions())
	require.NoError(t, err)
	second, err := Train(ds, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTrainLearnsThreshold(t *testing.T) {
	model, err := Train(thresholdDataset(201), DefaultOptions())
	require.NoError(t, err)

	high, _ := model.Predict([]float64{1, 0.5})
	low, _ := model.Predict([]float64{0, 0.5})
	assert.Greater(t, high, 0.9)
	assert.Less(t, low, 0.1)

	mid, contribs := model.Predict([]float64{0.75, 0.5})
	assert.Greater(t, mid, low)
	assert.Less(t, mid, high)
	assert.Zero(t, contribs[1], "constant column should contribute nothing")
}

func TestTrainOrdersLeadQuality(t *testing.T) {
	ds := corpus.Synthetic(2000, 7)
	model, err := Train(ds, DefaultOptions())
	require.NoError(t, err)

	strong, _ := model.Predict([]float64{1, 1, 1, 1, 1})
	weak, _ := model.Predict([]float64{0, 0, 0, 0, 0})

	assert.Greater(t, strong, weak)
	assert.Greater(t, strong, 3*weak)
	assert.Less(t, weak, 0.2)
}

func TestTrainRejectsInvalidDataset(t *testing.T) {
	ds := &corpus.Dataset{
		FeatureNames: []string{"a"},
		Rows:         [][]float64{{1}, {2}},
		Labels:       []bool{true},
	}
	_, err := Train(ds, DefaultOptions())
	assert.Error(t, err)
}

func TestModelValidate(t *testing.T) {
	valid := Model{
		Weights: []float64{1, -1},
		Bias:    0.5,
		Means:   []float64{0.5, 0.5},
		Stds:    []float64{0.2, 0.3},
	}
	assert.NoError(t, valid.Validate(2))
	assert.Error(t, valid.Validate(3))

	broken := valid
	broken.Stds = []float64{0.2, 0}
	assert.Error(t, broken.Validate(2))
}

func TestClassifierArtifactRoundTrip(t *testing.T) {
	ds := corpus.Synthetic(800, 5)
	model, err := Train(ds, DefaultOptions())
	require.NoError(t, err)

	art, err := artifact.New(Algorithm, core.FeatureNames(), time.Now(), model)
	require.NoError(t, err)

	c := NewClassifier(zap.NewNop())
	require.NoError(t, c.LoadArtifact(art))
	assert.Equal(t, art.Version, c.Info().Version)

	fv := &core.FeatureVector{
		Names:  core.FeatureNames(),
		Values: []float64{0.9, 0.8, 0.85, 1, 0.7},
	}
	pred, err := c.Score(context.Background(), fv)
	require.NoError(t, err)

	prob, _ := model.Predict(fv.Values)
	assert.InDelta(t, prob*100, pred.Score, 1e-9)

	var abs float64
	for _, w := range pred.Contributions {
		abs += math.Abs(w)
	}
	assert.InDelta(t, 1.0, abs, 1e-9)
}

func TestClassifierGuards(t *testing.T) {
	c := NewClassifier(zap.NewNop())

	fv := &core.FeatureVector{Names: core.FeatureNames(), Values: make([]float64, 5)}
	_, err := c.Score(context.Background(), fv)
	assert.ErrorIs(t, err, core.ErrModelUnavailable)

	art, err := artifact.New("forest", core.FeatureNames(), time.Now(), map[string]any{})
	require.NoError(t, err)
	assert.Error(t, c.LoadArtifact(art))

	ds := corpus.Synthetic(400, 2)
	model, trainErr := Train(ds, DefaultOptions())
	require.NoError(t, trainErr)
	c.Load(model, core.ModelInfo{Version: "linear-test", FeatureNames: core.FeatureNames()})

	_, err = c.Score(context.Background(), &core.FeatureVector{
		Names:  []string{"email_quality"},
		Values: []float64{1},
	})
	assert.True(t, core.IsSchemaMismatch(err))
}
