package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/leadlab/lead-quality-engine/internal/textnorm"
)

// RawLead is one prospect record exactly as the source exported it: field
// names and values verbatim. Any subset of fields may be present and
// nothing here is ever mutated by the pipeline.
type RawLead map[string]string

// Field is a resolved lead attribute. Present is false when the source had
// no such column or filled it with a placeholder such as "N/A".
type Field struct {
	Value   string
	Present bool
}

// Canonical field names the pipeline knows how to resolve from a raw
// record. Source exports rarely agree on column names, so each canonical
// field carries the aliases seen in the wild.
const (
	FieldID          = "id"
	FieldCompany     = "company"
	FieldContactName = "contact_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldTitle       = "title"
	FieldIndustry    = "industry"
	FieldCompanySize = "company_size"
	FieldWebsite     = "website"
	FieldCity        = "city"
	FieldState       = "state"
)

var fieldAliases = map[string][]string{
	FieldID:          {"id", "lead_id", "record_id"},
	FieldCompany:     {"company", "company_name", "organization", "account_name"},
	FieldContactName: {"contact_name", "full_name", "name", "contact"},
	FieldEmail:       {"email", "contact_email", "email_address", "work_email"},
	FieldPhone:       {"phone", "contact_phone", "phone_number", "mobile", "company_phone"},
	FieldTitle:       {"title", "contact_title", "job_title", "position", "role"},
	FieldIndustry:    {"industry", "sector", "vertical"},
	FieldCompanySize: {"company_size", "employees", "employee_count", "headcount"},
	FieldWebsite:     {"website", "company_website", "url"},
	FieldCity:        {"city"},
	FieldState:       {"state", "region"},
}

// Placeholder values that sources use for "we have nothing here".
var emptyMarkers = map[string]bool{
	"":        true,
	"n/a":     true,
	"na":      true,
	"none":    true,
	"null":    true,
	"nil":     true,
	"-":       true,
	"unknown": true,
}

// IsBlank reports whether a raw value should be treated as absent.
func IsBlank(v string) bool {
	return emptyMarkers[textnorm.Fold(v)]
}

// Resolve finds the value for a canonical field name, trying each alias
// against the raw keys case- and separator-insensitively. The first alias
// with a usable value wins. Keys are scanned in sorted order so duplicate
// columns resolve the same way on every run.
func (r RawLead) Resolve(canonical string) Field {
	aliases, ok := fieldAliases[canonical]
	if !ok {
		aliases = []string{canonical}
	}
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, alias := range aliases {
		for _, key := range keys {
			if normalizeKey(key) != alias {
				continue
			}
			if IsBlank(r[key]) {
				continue
			}
			return Field{Value: textnorm.Collapse(r[key]), Present: true}
		}
	}
	return Field{}
}

// ID derives a stable identifier for a lead within a batch: an explicit
// id column when the source carries one, then email, then company plus
// contact name. Leads with none of these get identified by position at
// the batch boundary.
func (r RawLead) ID() string {
	if f := r.Resolve(FieldID); f.Present {
		return f.Value
	}
	if f := r.Resolve(FieldEmail); f.Present {
		return textnorm.Fold(f.Value)
	}
	company := r.Resolve(FieldCompany)
	contact := r.Resolve(FieldContactName)
	if company.Present || contact.Present {
		return textnorm.Fold(company.Value + "/" + contact.Value)
	}
	return ""
}

func normalizeKey(key string) string {
	folded := textnorm.Fold(key)
	out := make([]rune, 0, len(folded))
	for _, r := range folded {
		switch {
		case r == ' ' || r == '-' || r == '.':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// Degradation records a field the validator could not make sense of. It is
// informational: the lead still gets scored, with the feature value
// degraded instead.
type Degradation struct {
	Field  string
	Reason string
}

func (d Degradation) String() string {
	return d.Field + ": " + d.Reason
}

// ValidationSignals carries the per-lead validator outputs consumed by
// feature extraction. Computed once per pipeline pass, never persisted.
type ValidationSignals struct {
	EmailValid      bool
	EmailConfidence float64
	PhoneValid      bool
	PhoneConfidence float64
	Degradations    []Degradation
}

// Category is an ordered priority bucket. Hot outranks Warm outranks Cold
// outranks Low.
type Category string

const (
	CategoryHot  Category = "Hot"
	CategoryWarm Category = "Warm"
	CategoryCold Category = "Cold"
	CategoryLow  Category = "Low"
)

var categoryRanks = map[Category]int{
	CategoryLow:  0,
	CategoryCold: 1,
	CategoryWarm: 2,
	CategoryHot:  3,
}

// Rank returns the position of the category in the tier order, higher
// meaning higher priority, or -1 for an unknown category.
func (c Category) Rank() int {
	if r, ok := categoryRanks[c]; ok {
		return r
	}
	return -1
}

// ParseCategory converts a string from configuration or storage into a
// known Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryRanks[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// ScoreResult is the scored form of one lead. Derived once, never mutated.
type ScoreResult struct {
	LeadID        string
	Score         float64
	Category      Category
	Contributions map[string]float64
	ModelVersion  string
	ScoredAt      time.Time
	FromCache     bool
}

// ScoredLead pairs a raw lead with its outcome. Exactly one of Result and
// Err is set: a schema failure is reported here instead of aborting the
// rest of the batch. Degradations carry the informational validator notes
// for reporting.
type ScoredLead struct {
	Lead         RawLead
	Result       *ScoreResult
	Degradations []Degradation
	Err          error
}

// ModelInfo describes a trained classifier artifact.
type ModelInfo struct {
	Version      string
	Algorithm    string
	FeatureNames []string
	TrainedAt    time.Time
}

// Prediction is a classifier output before tiering: a score on the 0-100
// scale plus the signed per-feature contributions that produced it.
// Contributions are L1-normalized so magnitudes are comparable between
// leads.
type Prediction struct {
	Score         float64
	Contributions map[string]float64
}

// ScoreCacheEntry is a cached scoring outcome keyed by lead fingerprint.
// The fingerprint covers the model version, so retraining naturally
// invalidates old entries.
type ScoreCacheEntry struct {
	Fingerprint   string
	Score         float64
	Category      Category
	Contributions map[string]float64
	ModelVersion  string
	LastSeen      time.Time
	ExpiresAt     time.Time
}
