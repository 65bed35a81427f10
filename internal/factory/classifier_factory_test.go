package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/forest"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/policy"
)

// defaultModelConfig mirrors the daemon's auto-train defaults.
func defaultModelConfig() config.ModelConfig {
	return config.ModelConfig{
		Backend:      "forest",
		AutoTrain:    true,
		TrainSamples: 1000,
		TrainSeed:    42,
		Trees:        50,
		MaxDepth:     10,
	}
}

func newDefaultService(t *testing.T) *core.LeadScoringService {
	t.Helper()

	a, err := TrainArtifact(defaultModelConfig())
	require.NoError(t, err)

	classifier := forest.NewClassifier(zap.NewNop())
	require.NoError(t, classifier.LoadArtifact(a))

	pol := policy.Default()
	tiers, err := core.NewTierPolicy(pol.Tiers)
	require.NoError(t, err)

	return core.NewLeadScoringService(classifier, nil, &pol, tiers,
		zap.NewNop(), false, 0, 1)
}

// The auto-trained default model has to place obviously good and
// obviously empty leads in sensible tiers end to end, raw fields through
// validation, extraction, classification and tiering.
func TestDefaultTrainedModelTiersCanonicalLeads(t *testing.T) {
	svc := newDefaultService(t)

	vpLead := core.RawLead{
		"email":    "a@b.com",
		"phone":    "555-123-4567",
		"title":    "VP of Sales",
		"industry": "SaaS",
		"company":  "Acme",
	}
	result, _, err := svc.ScoreLead(context.Background(), vpLead)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Category.Rank(), core.CategoryWarm.Rank(),
		"a senior title with verified contact details scored %.1f (%s), want Warm or better",
		result.Score, result.Category)

	bareLead := core.RawLead{"company": "X"}
	result, _, err = svc.ScoreLead(context.Background(), bareLead)
	require.NoError(t, err)
	assert.Equal(t, core.CategoryLow, result.Category,
		"a company name alone scored %.1f, want Low", result.Score)
}
