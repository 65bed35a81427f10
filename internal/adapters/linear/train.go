package linear

import (
	"fmt"
	"math"

	"github.com/leadlab/lead-quality-engine/internal/corpus"
)

// Options control the gradient-descent fit.
type Options struct {
	Iterations   int
	LearningRate float64
}

// DefaultOptions fit the synthetic corpus in well under a second.
func DefaultOptions() Options {
	return Options{Iterations: 400, LearningRate: 0.5}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Iterations <= 0 {
		o.Iterations = defaults.Iterations
	}
	if o.LearningRate <= 0 {
		o.LearningRate = defaults.LearningRate
	}
	return o
}

// Train fits a logistic regression with full-batch gradient descent on
// log loss. The fit is deterministic: zero-initialized weights, a fixed
// iteration count and no shuffling.
func Train(ds *corpus.Dataset, opts Options) (*Model, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid training dataset: %w", err)
	}
	opts = opts.withDefaults()

	n := ds.Len()
	featureCount := len(ds.FeatureNames)

	means := make([]float64, featureCount)
	stds := make([]float64, featureCount)
	for j := 0; j < featureCount; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += ds.Rows[i][j]
		}
		mean := sum / float64(n)
		var sq float64
		for i := 0; i < n; i++ {
			d := ds.Rows[i][j] - mean
			sq += d * d
		}
		std := math.Sqrt(sq / float64(n))
		if std < 1e-9 {
			// Constant column: centering alone zeroes it out, so the
			// scale does not matter as long as it is positive.
			std = 1
		}
		means[j] = mean
		stds[j] = std
	}

	standardized := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, featureCount)
		for j := 0; j < featureCount; j++ {
			row[j] = (ds.Rows[i][j] - means[j]) / stds[j]
		}
		standardized[i] = row
	}

	weights := make([]float64, featureCount)
	var bias float64
	gradW := make([]float64, featureCount)
	for iter := 0; iter < opts.Iterations; iter++ {
		for j := range gradW {
			gradW[j] = 0
		}
		var gradB float64
		for i := 0; i < n; i++ {
			z := bias
			for j := 0; j < featureCount; j++ {
				z += weights[j] * standardized[i][j]
			}
			target := 0.0
			if ds.Labels[i] {
				target = 1
			}
			residual := sigmoid(z) - target
			for j := 0; j < featureCount; j++ {
				gradW[j] += residual * standardized[i][j]
			}
			gradB += residual
		}
		step := opts.LearningRate / float64(n)
		for j := 0; j < featureCount; j++ {
			weights[j] -= step * gradW[j]
		}
		bias -= step * gradB
	}

	return &Model{Weights: weights, Bias: bias, Means: means, Stds: stds}, nil
}
