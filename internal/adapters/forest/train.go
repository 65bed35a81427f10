package forest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/leadlab/lead-quality-engine/internal/corpus"
)

// Options controls forest training. Zero values fall back to the
// defaults.
type Options struct {
	Trees    int
	MaxDepth int
	MinLeaf  int
	Seed     int64
}

// DefaultOptions returns the training parameters the default artifact is
// built with.
func DefaultOptions() Options {
	return Options{Trees: 50, MaxDepth: 10, MinLeaf: 2, Seed: 42}
}

func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Trees <= 0 {
		o.Trees = defaults.Trees
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = defaults.MaxDepth
	}
	if o.MinLeaf <= 0 {
		o.MinLeaf = defaults.MinLeaf
	}
	if o.Seed == 0 {
		o.Seed = defaults.Seed
	}
	return o
}

// Train grows a bagged forest over the dataset. Each tree gets its own
// seeded generator derived from the base seed, so training is fully
// deterministic: the same corpus and options always produce the same
// model.
func Train(ds *corpus.Dataset, opts Options) (*Model, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("corpus not trainable: %w", err)
	}
	opts = opts.withDefaults()

	featureCount := len(ds.FeatureNames)
	model := &Model{
		Trees:       make([]Tree, 0, opts.Trees),
		Importances: make([]float64, featureCount),
	}
	mtry := featureSubsetSize(featureCount)

	for t := 0; t < opts.Trees; t++ {
		rng := rand.New(rand.NewSource(opts.Seed + int64(t)*1_000_003))

		samples := make([]int, ds.Len())
		for i := range samples {
			samples[i] = rng.Intn(ds.Len())
		}

		b := &treeBuilder{
			ds:          ds,
			rng:         rng,
			opts:        opts,
			mtry:        mtry,
			importances: model.Importances,
		}
		model.Trees = append(model.Trees, b.build(samples))
	}

	normalize(model.Importances)
	return model, nil
}

// featureSubsetSize is the number of candidate features per split, the
// usual sqrt rule for classification forests.
func featureSubsetSize(featureCount int) int {
	size := int(math.Sqrt(float64(featureCount)))
	if size < 1 {
		size = 1
	}
	return size
}

type treeBuilder struct {
	ds          *corpus.Dataset
	rng         *rand.Rand
	opts        Options
	mtry        int
	nodes       []Node
	importances []float64
}

func (b *treeBuilder) build(samples []int) Tree {
	b.grow(samples, 0)
	return Tree{Nodes: b.nodes}
}

// grow appends the subtree covering samples and returns its root index.
// Parents are appended before children, so node 0 is always the tree
// root.
func (b *treeBuilder) grow(samples []int, depth int) int {
	idx := len(b.nodes)
	value := b.positiveFraction(samples)
	b.nodes = append(b.nodes, Node{Feature: -1, Left: -1, Right: -1, Value: value})

	if depth >= b.opts.MaxDepth || len(samples) < 2*b.opts.MinLeaf || value == 0 || value == 1 {
		return idx
	}

	feature, threshold, gain := b.bestSplit(samples)
	if feature < 0 {
		return idx
	}

	left, right := b.partition(samples, feature, threshold)
	b.importances[feature] += gain * float64(len(samples))

	leftIdx := b.grow(left, depth+1)
	rightIdx := b.grow(right, depth+1)
	b.nodes[idx].Feature = feature
	b.nodes[idx].Threshold = threshold
	b.nodes[idx].Left = leftIdx
	b.nodes[idx].Right = rightIdx
	return idx
}

// bestSplit searches a random feature subset for the gini-gain-maximizing
// threshold. Returns feature -1 when no split beats the parent impurity
// while keeping both children at least MinLeaf large.
func (b *treeBuilder) bestSplit(samples []int) (int, float64, float64) {
	n := len(samples)
	positives := 0
	for _, s := range samples {
		if b.ds.Labels[s] {
			positives++
		}
	}
	parent := gini(positives, n)

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0

	perm := b.rng.Perm(len(b.ds.FeatureNames))
	for _, feature := range perm[:b.mtry] {
		type point struct {
			value    float64
			positive bool
		}
		points := make([]point, 0, n)
		for _, s := range samples {
			points = append(points, point{b.ds.Rows[s][feature], b.ds.Labels[s]})
		}
		sort.Slice(points, func(i, j int) bool { return points[i].value < points[j].value })

		leftN, leftPos := 0, 0
		for i := 0; i < n-1; i++ {
			leftN++
			if points[i].positive {
				leftPos++
			}
			if points[i].value == points[i+1].value {
				continue
			}
			if leftN < b.opts.MinLeaf || n-leftN < b.opts.MinLeaf {
				continue
			}

			rightN := n - leftN
			rightPos := positives - leftPos
			weighted := (float64(leftN)*gini(leftPos, leftN) + float64(rightN)*gini(rightPos, rightN)) / float64(n)
			if gain := parent - weighted; gain > bestGain+1e-12 {
				bestFeature = feature
				bestThreshold = (points[i].value + points[i+1].value) / 2
				bestGain = gain
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

func (b *treeBuilder) partition(samples []int, feature int, threshold float64) ([]int, []int) {
	var left, right []int
	for _, s := range samples {
		if b.ds.Rows[s][feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	return left, right
}

func (b *treeBuilder) positiveFraction(samples []int) float64 {
	if len(samples) == 0 {
		return 0
	}
	positives := 0
	for _, s := range samples {
		if b.ds.Labels[s] {
			positives++
		}
	}
	return float64(positives) / float64(len(samples))
}

// gini is the binary gini impurity of a node with pos positives among n.
func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func normalize(weights []float64) {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	if sum <= 0 {
		return
	}
	for i := range weights {
		weights[i] /= sum
	}
}
