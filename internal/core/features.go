package core

import (
	"math"

	"github.com/leadlab/lead-quality-engine/internal/policy"
)

// Feature names in the order the model schema expects them. The order is
// load-bearing: classifiers validate it before scoring.
const (
	FeatureEmailQuality   = "email_quality"
	FeaturePhoneValidity  = "phone_validity"
	FeatureTitleSeniority = "title_seniority"
	FeatureCompleteness   = "completeness_ratio"
	FeatureIndustryFit    = "industry_fit"
)

// FeatureNames returns the canonical feature schema as a fresh slice.
func FeatureNames() []string {
	return []string{
		FeatureEmailQuality,
		FeaturePhoneValidity,
		FeatureTitleSeniority,
		FeatureCompleteness,
		FeatureIndustryFit,
	}
}

// FeatureVector is a fixed ordered sequence of named features, every value
// in [0,1].
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Get returns the value of a named feature.
func (f *FeatureVector) Get(name string) (float64, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Values[i], true
		}
	}
	return 0, false
}

// FeatureExtractor derives the feature vector for one lead from its raw
// fields plus the validator signals.
type FeatureExtractor struct {
	policy *policy.Policy
}

// NewFeatureExtractor creates a new feature extractor bound to a scoring
// policy.
func NewFeatureExtractor(p *policy.Policy) *FeatureExtractor {
	return &FeatureExtractor{policy: p}
}

// Extract produces the feature vector for one lead. Extraction is
// order-stable and tolerates any subset of fields being absent: missing
// data degrades a feature toward its floor or neutral value, it never
// fails.
func (e *FeatureExtractor) Extract(lead RawLead, signals ValidationSignals) *FeatureVector {
	var emailQuality float64
	if lead.Resolve(FieldEmail).Present {
		emailQuality = 0.4*boolToFloat(signals.EmailValid) + 0.6*signals.EmailConfidence
	}

	var phoneValidity float64
	if lead.Resolve(FieldPhone).Present {
		phoneValidity = 0.4*boolToFloat(signals.PhoneValid) + 0.6*signals.PhoneConfidence
	}

	_, titleSeniority := e.policy.SeniorityWeight(lead.Resolve(FieldTitle).Value)
	_, industryFit := e.policy.IndustryFit(lead.Resolve(FieldIndustry).Value)

	return &FeatureVector{
		Names: FeatureNames(),
		Values: []float64{
			clamp01(emailQuality),
			clamp01(phoneValidity),
			clamp01(titleSeniority),
			clamp01(e.completeness(lead)),
			clamp01(industryFit),
		},
	}
}

// completeness is the fraction of the policy's required fields that are
// present and non-empty. A plain auditable proportion, not a learned
// value.
func (e *FeatureExtractor) completeness(lead RawLead) float64 {
	required := e.policy.RequiredFields
	if len(required) == 0 {
		return 0
	}
	present := 0
	for _, name := range required {
		if lead.Resolve(name).Present {
			present++
		}
	}
	return float64(present) / float64(len(required))
}

// Complete reports whether every required field is present on the lead.
func (e *FeatureExtractor) Complete(lead RawLead) bool {
	for _, name := range e.policy.RequiredFields {
		if !lead.Resolve(name).Present {
			return false
		}
	}
	return true
}

// CheckSchema validates a runtime feature vector against a trained
// schema: same length, same names, same order. Classifiers call this
// before scoring so a drifted vector fails loudly instead of scoring
// wrong.
func CheckSchema(want []string, fv *FeatureVector) error {
	if len(fv.Names) != len(want) || len(fv.Values) != len(fv.Names) {
		return &SchemaMismatchError{Want: want, Got: fv.Names}
	}
	for i, name := range want {
		if fv.Names[i] != name {
			return &SchemaMismatchError{Want: want, Got: fv.Names}
		}
	}
	return nil
}

// NormalizeContributions maps per-feature weights by name, L1-normalized
// so the absolute weights sum to 1 and magnitudes compare across leads.
// Signs are preserved; an all-zero weight vector stays all zero.
func NormalizeContributions(names []string, weights []float64) map[string]float64 {
	var sum float64
	for _, w := range weights {
		sum += math.Abs(w)
	}
	out := make(map[string]float64, len(names))
	for i, name := range names {
		w := weights[i]
		if sum > 0 {
			w /= sum
		}
		out[name] = w
	}
	return out
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x):
		return 0
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
