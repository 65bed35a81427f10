package forest

import (
	"fmt"
)

// Node is one node of a decision tree in flattened array form. Leaves
// have Feature == -1. Value is the positive-class fraction of the
// training samples that reached the node; keeping it on internal nodes as
// well is what makes per-path contribution reporting possible at
// inference time.
type Node struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
}

// Tree is a single CART tree. Nodes[0] is the root.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Model is a trained random forest for binary lead quality. Importances
// are the impurity-decrease feature weights accumulated during training,
// normalized to sum to 1.
type Model struct {
	Trees       []Tree    `json:"trees"`
	Importances []float64 `json:"importances"`
}

// predict walks one tree and returns the positive-class fraction at the
// reached leaf. Along the way it attributes the change in node value at
// each split to the split feature, accumulating into contribs.
func (t *Tree) predict(features []float64, contribs []float64) float64 {
	node := t.Nodes[0]
	value := node.Value
	for node.Feature >= 0 {
		next := node.Right
		if features[node.Feature] <= node.Threshold {
			next = node.Left
		}
		child := t.Nodes[next]
		contribs[node.Feature] += child.Value - value
		value = child.Value
		node = child
	}
	return value
}

// Predict returns the forest's positive-class probability for one feature
// vector along with the per-feature contributions averaged over trees.
// The probability always equals the mean root value plus the sum of the
// contributions.
func (m *Model) Predict(features []float64) (float64, []float64) {
	contribs := make([]float64, len(features))
	var sum float64
	for i := range m.Trees {
		sum += m.Trees[i].predict(features, contribs)
	}
	n := float64(len(m.Trees))
	for i := range contribs {
		contribs[i] /= n
	}
	return sum / n, contribs
}

// Validate checks structural sanity after decoding an artifact: non-empty
// trees, child indexes in range, leaf values in [0,1].
func (m *Model) Validate(featureCount int) error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	if len(m.Importances) != featureCount {
		return fmt.Errorf("forest has %d importances for %d features", len(m.Importances), featureCount)
	}
	for ti, tree := range m.Trees {
		if len(tree.Nodes) == 0 {
			return fmt.Errorf("tree %d has no nodes", ti)
		}
		for ni, node := range tree.Nodes {
			if node.Value < 0 || node.Value > 1 {
				return fmt.Errorf("tree %d node %d: value %v out of range", ti, ni, node.Value)
			}
			if node.Feature < 0 {
				continue
			}
			if node.Feature >= featureCount {
				return fmt.Errorf("tree %d node %d: feature index %d out of range", ti, ni, node.Feature)
			}
			if node.Left < 0 || node.Left >= len(tree.Nodes) || node.Right < 0 || node.Right >= len(tree.Nodes) {
				return fmt.Errorf("tree %d node %d: child index out of range", ti, ni)
			}
		}
	}
	return nil
}
