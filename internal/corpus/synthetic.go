package corpus

import (
	"math/rand"

	"github.com/leadlab/lead-quality-engine/internal/core"
)

// Synthetic builds the labeled corpus the default model trains on. Rows
// mimic the mix a real list export carries: roughly a third are
// well-qualified decision makers with corporate emails and near-complete
// records, the rest are the junk, partials and wrong-fit contacts around
// them. Labels encode the sales heuristics the scorer is meant to learn:
// a verified email on a senior title carries the most weight, then
// completeness, industry and phone, with a little Gaussian noise so the
// boundary is not razor sharp. The same seed always yields the same
// corpus.
func Synthetic(n int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	names := core.FeatureNames()

	d := &Dataset{
		FeatureNames: names,
		Rows:         make([][]float64, 0, n),
		Labels:       make([]bool, 0, n),
	}

	for i := 0; i < n; i++ {
		row := make([]float64, len(names))
		if rng.Float64() < 0.35 {
			row[0] = 0.75 + rng.Float64()*0.25 // corporate email, valid format
			row[1] = 0.6 + rng.Float64()*0.4   // phone mostly present
			row[2] = 0.7 + rng.Float64()*0.3   // director and up
			row[3] = 0.7 + rng.Float64()*0.3   // near-complete record
			row[4] = 0.6 + rng.Float64()*0.4   // target-adjacent industry
		} else {
			for j := range row {
				row[j] = rng.Float64()
			}
		}

		emailQuality := row[0]
		phoneValidity := row[1]
		titleSeniority := row[2]
		completeness := row[3]
		industryFit := row[4]

		var score float64
		if emailQuality >= 0.8 && titleSeniority >= 0.8 {
			score += 0.4
		}
		if completeness >= 0.75 {
			score += 0.3
		}
		if industryFit >= 0.9 {
			score += 0.2
		}
		if phoneValidity >= 0.8 {
			score += 0.1
		}
		score += rng.NormFloat64() * 0.05

		d.Rows = append(d.Rows, row)
		d.Labels = append(d.Labels, score > 0.6)
	}

	return d
}
