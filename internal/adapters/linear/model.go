package linear

import (
	"fmt"
	"math"
)

// Model is a standardized logistic-regression scorer. Features are
// shifted and scaled by the training means and deviations before the
// linear term, so the weights are comparable across features.
type Model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
	Means   []float64 `json:"means"`
	Stds    []float64 `json:"stds"`
}

// Predict returns the positive-class probability for one feature vector
// along with the per-feature logit contributions, weight times
// standardized value.
func (m *Model) Predict(features []float64) (float64, []float64) {
	contribs := make([]float64, len(features))
	z := m.Bias
	for i, v := range features {
		c := m.Weights[i] * (v - m.Means[i]) / m.Stds[i]
		contribs[i] = c
		z += c
	}
	return sigmoid(z), contribs
}

// Validate checks structural sanity after decoding an artifact.
func (m *Model) Validate(featureCount int) error {
	if len(m.Weights) != featureCount || len(m.Means) != featureCount || len(m.Stds) != featureCount {
		return fmt.Errorf("model dimensions do not match %d features", featureCount)
	}
	for i, s := range m.Stds {
		if s <= 0 || math.IsNaN(s) {
			return fmt.Errorf("feature %d has non-positive deviation %v", i, s)
		}
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
