package core

import "time"

// BatchStats aggregates one batch for reporting. It is computed as a
// final fold over independent per-lead outcomes; nothing here feeds back
// into scoring.
type BatchStats struct {
	Total            int
	Scored           int
	Failed           int
	Degraded         int
	CacheHits        int
	CompleteProfiles int
	ByCategory       map[Category]int
	AvgScore         float64
	MinScore         float64
	MaxScore         float64
}

// BatchResult is the outcome of one batch run. Items align with the
// input order; a failed lead keeps its position with a nil Result and a
// recorded error.
type BatchResult struct {
	BatchID      string
	ModelVersion string
	Items        []ScoredLead
	Stats        BatchStats
	Elapsed      time.Duration
}

// Summarize folds per-lead outcomes into batch statistics.
func Summarize(items []ScoredLead) BatchStats {
	stats := BatchStats{
		Total:      len(items),
		ByCategory: make(map[Category]int),
	}

	var sum float64
	for _, item := range items {
		if len(item.Degradations) > 0 {
			stats.Degraded++
		}
		if item.Err != nil || item.Result == nil {
			stats.Failed++
			continue
		}
		score := item.Result.Score
		if stats.Scored == 0 || score < stats.MinScore {
			stats.MinScore = score
		}
		if stats.Scored == 0 || score > stats.MaxScore {
			stats.MaxScore = score
		}
		stats.Scored++
		stats.ByCategory[item.Result.Category]++
		sum += score
		if item.Result.FromCache {
			stats.CacheHits++
		}
	}
	if stats.Scored > 0 {
		stats.AvgScore = sum / float64(stats.Scored)
	}
	return stats
}
