package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlab/lead-quality-engine/internal/policy"
)

func newTestExtractor() (*Validator, *FeatureExtractor) {
	p := policy.Default()
	return NewValidator(&p), NewFeatureExtractor(&p)
}

func extract(t *testing.T, lead RawLead) *FeatureVector {
	t.Helper()
	v, e := newTestExtractor()
	return e.Extract(lead, v.Validate(lead))
}

func TestExtractEmptyLead(t *testing.T) {
	fv := extract(t, RawLead{})

	require.Equal(t, FeatureNames(), fv.Names)
	require.Len(t, fv.Values, len(fv.Names))

	emailQuality, _ := fv.Get(FeatureEmailQuality)
	assert.Zero(t, emailQuality)
	phoneValidity, _ := fv.Get(FeaturePhoneValidity)
	assert.Zero(t, phoneValidity)
	titleSeniority, _ := fv.Get(FeatureTitleSeniority)
	assert.InDelta(t, 0.2, titleSeniority, 1e-9)
	completeness, _ := fv.Get(FeatureCompleteness)
	assert.Zero(t, completeness)
	industryFit, _ := fv.Get(FeatureIndustryFit)
	assert.InDelta(t, 0.5, industryFit, 1e-9)
}

func TestExtractSeniorLead(t *testing.T) {
	fv := extract(t, RawLead{
		"email":    "a@b.com",
		"phone":    "555-123-4567",
		"title":    "VP of Sales",
		"industry": "SaaS",
		"company":  "Acme",
	})

	emailQuality, _ := fv.Get(FeatureEmailQuality)
	assert.InDelta(t, 1.0, emailQuality, 1e-9)
	phoneValidity, _ := fv.Get(FeaturePhoneValidity)
	assert.InDelta(t, 1.0, phoneValidity, 1e-9)
	titleSeniority, _ := fv.Get(FeatureTitleSeniority)
	assert.InDelta(t, 0.85, titleSeniority, 1e-9)
	completeness, _ := fv.Get(FeatureCompleteness)
	assert.InDelta(t, 5.0/6.0, completeness, 1e-9)
	industryFit, _ := fv.Get(FeatureIndustryFit)
	assert.InDelta(t, 1.0, industryFit, 1e-9)
}

func TestExtractPersonalEmailScoresBelowBusiness(t *testing.T) {
	personal := extract(t, RawLead{"email": "jane@gmail.com"})
	business := extract(t, RawLead{"email": "jane@acme.com"})

	p, _ := personal.Get(FeatureEmailQuality)
	b, _ := business.Get(FeatureEmailQuality)
	assert.Less(t, p, b)
	assert.InDelta(t, 0.82, p, 1e-9)
	assert.InDelta(t, 1.0, b, 1e-9)
}

func TestExtractFlaggedDomainScoresBelowClean(t *testing.T) {
	flagged := extract(t, RawLead{"email": "nobody@test.test"})
	clean := extract(t, RawLead{"email": "nobody@northwind.ai"})

	f, _ := flagged.Get(FeatureEmailQuality)
	c, _ := clean.Get(FeatureEmailQuality)
	assert.Less(t, f, c)
}

func TestExtractCompletenessFromAliasedColumns(t *testing.T) {
	fv := extract(t, RawLead{
		"Company":       "Globex",
		"Contact_Name":  "Hank Scorpio",
		"Contact_Email": "hank@globex.com",
		"Contact_Phone": "555-867-5309",
		"Contact_Title": "CEO",
		"Industry":      "Technology",
	})

	completeness, _ := fv.Get(FeatureCompleteness)
	assert.InDelta(t, 1.0, completeness, 1e-9)
}

func TestExtractIsTotalAndBounded(t *testing.T) {
	leads := []RawLead{
		{},
		{"email": strings.Repeat("@", 5000)},
		{"phone": "++++++"},
		{"title": strings.Repeat("chief ", 10_000)},
		{"industry": "\x00\xff", "company": "  "},
		{"email": "N/A", "phone": "N/A", "title": "N/A"},
		{"unrelated_column": "value", "another": "thing"},
	}

	for _, lead := range leads {
		fv := extract(t, lead)
		require.Len(t, fv.Values, len(FeatureNames()))
		for i, val := range fv.Values {
			assert.GreaterOrEqual(t, val, 0.0, "feature %s", fv.Names[i])
			assert.LessOrEqual(t, val, 1.0, "feature %s", fv.Names[i])
		}
	}
}
