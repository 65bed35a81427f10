package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Column names added to every export record.
const (
	ColumnLeadScore    = "lead_score"
	ColumnLeadCategory = "lead_category"
	ColumnExplanation  = "explanation"
)

// ExportRecord is a flattened scored lead: every original field plus the
// three added scoring columns, ready for CSV export or CRM mapping.
type ExportRecord map[string]string

// OutputFormatter merges a lead with its score result into an export
// record.
type OutputFormatter struct {
	topFeatures int
}

// NewOutputFormatter creates a formatter whose explanations name the
// topFeatures strongest contributions. Values below 1 fall back to 3.
func NewOutputFormatter(topFeatures int) *OutputFormatter {
	if topFeatures < 1 {
		topFeatures = 3
	}
	return &OutputFormatter{topFeatures: topFeatures}
}

// Format is purely additive: every original field is carried over
// verbatim, then the scoring columns are added. When a source column
// already uses a reserved name the added column moves behind an "ai_"
// prefix rather than clobbering the original.
func (f *OutputFormatter) Format(lead RawLead, result *ScoreResult) ExportRecord {
	out := make(ExportRecord, len(lead)+3)
	for k, v := range lead {
		out[k] = v
	}

	set := func(name, value string) {
		if _, taken := out[name]; taken {
			name = "ai_" + name
		}
		out[name] = value
	}
	set(ColumnLeadScore, strconv.FormatFloat(result.Score, 'f', 1, 64))
	set(ColumnLeadCategory, string(result.Category))
	set(ColumnExplanation, f.Explain(result))

	return out
}

// Explain produces a short human-readable line naming the strongest score
// drivers, e.g. "strong email quality, low phone validity". Features are
// ranked by contribution magnitude; ties keep schema order so the output
// is stable between runs.
func (f *OutputFormatter) Explain(result *ScoreResult) string {
	type weighted struct {
		name   string
		weight float64
	}

	ordered := make([]weighted, 0, len(result.Contributions))
	for _, name := range FeatureNames() {
		if w, ok := result.Contributions[name]; ok {
			ordered = append(ordered, weighted{name, w})
		}
	}
	extras := make([]string, 0)
	for name := range result.Contributions {
		if _, known := featurePhrases[name]; !known {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		ordered = append(ordered, weighted{name, result.Contributions[name]})
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return math.Abs(ordered[i].weight) > math.Abs(ordered[j].weight)
	})
	if len(ordered) > f.topFeatures {
		ordered = ordered[:f.topFeatures]
	}

	parts := make([]string, 0, len(ordered))
	for _, w := range ordered {
		parts = append(parts, qualify(w.name, w.weight))
	}
	if len(parts) == 0 {
		return "no scoring signals available"
	}
	return strings.Join(parts, ", ")
}

// AddedColumns returns the three column names Format will use for records
// sharing the given source header, in output order.
func AddedColumns(header []string) []string {
	taken := make(map[string]bool, len(header))
	for _, h := range header {
		taken[h] = true
	}
	out := make([]string, 0, 3)
	for _, name := range []string{ColumnLeadScore, ColumnLeadCategory, ColumnExplanation} {
		if taken[name] {
			name = "ai_" + name
		}
		out = append(out, name)
	}
	return out
}

var featurePhrases = map[string]string{
	FeatureEmailQuality:   "email quality",
	FeaturePhoneValidity:  "phone validity",
	FeatureTitleSeniority: "title seniority",
	FeatureCompleteness:   "contact completeness",
	FeatureIndustryFit:    "industry fit",
}

func qualify(name string, weight float64) string {
	phrase, ok := featurePhrases[name]
	if !ok {
		phrase = strings.ReplaceAll(name, "_", " ")
	}
	if weight < 0 {
		return "low " + phrase
	}
	return "strong " + phrase
}
