package core

import (
	"fmt"

	"github.com/leadlab/lead-quality-engine/internal/policy"
)

// TierBoundary pairs a category with the lowest score it covers.
type TierBoundary struct {
	Category Category
	MinScore float64
}

// TierPolicy thresholds a continuous score into an ordered category. The
// boundary list is ordered highest tier first and is the single place tie
// resolution happens: a score exactly on a boundary belongs to the higher
// tier.
type TierPolicy struct {
	boundaries []TierBoundary
}

// NewTierPolicy builds a tier policy from configured boundaries. The
// boundaries must name known categories, descend strictly in both score
// and tier rank, and end at score 0 so every score lands somewhere.
func NewTierPolicy(boundaries []policy.TierBoundary) (*TierPolicy, error) {
	if len(boundaries) == 0 {
		return nil, fmt.Errorf("tier policy needs at least one boundary")
	}

	out := make([]TierBoundary, 0, len(boundaries))
	for i, b := range boundaries {
		cat, err := ParseCategory(b.Category)
		if err != nil {
			return nil, fmt.Errorf("tier %d: %w", i, err)
		}
		if i > 0 {
			prev := out[i-1]
			if b.MinScore >= prev.MinScore {
				return nil, fmt.Errorf("tier %q: min_score %v must be below %v",
					b.Category, b.MinScore, prev.MinScore)
			}
			if cat.Rank() >= prev.Category.Rank() {
				return nil, fmt.Errorf("tier %q: categories must descend in rank", b.Category)
			}
		}
		out = append(out, TierBoundary{Category: cat, MinScore: b.MinScore})
	}

	if last := out[len(out)-1]; last.MinScore != 0 {
		return nil, fmt.Errorf("last tier %q must have min_score 0", last.Category)
	}
	return &TierPolicy{boundaries: out}, nil
}

// DefaultTierPolicy returns the built-in boundaries: Hot at 80, Warm at
// 60, Cold at 40, Low below that.
func DefaultTierPolicy() *TierPolicy {
	tp, err := NewTierPolicy(policy.Default().Tiers)
	if err != nil {
		panic(err)
	}
	return tp
}

// Categorize maps a continuous score to its tier.
func (t *TierPolicy) Categorize(score float64) Category {
	for _, b := range t.boundaries {
		if score >= b.MinScore {
			return b.Category
		}
	}
	return t.boundaries[len(t.boundaries)-1].Category
}

// Boundaries returns a copy of the boundary list, highest tier first.
func (t *TierPolicy) Boundaries() []TierBoundary {
	out := make([]TierBoundary, len(t.boundaries))
	copy(out, t.boundaries)
	return out
}
