package core

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/leadlab/lead-quality-engine/internal/policy"
)

// LeadScoringService is the core scoring pipeline: validation, feature
// extraction, classification, tiering. One instance serves any number of
// batches; the classifier artifact is shared read-only across workers.
type LeadScoringService struct {
	classifier   Classifier
	cache        ScoreCache
	validator    *Validator
	extractor    *FeatureExtractor
	tiers        *TierPolicy
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	workers      int
	policySum    string
	fpFields     []string
}

// NewLeadScoringService creates a new lead scoring service.
func NewLeadScoringService(
	classifier Classifier,
	cache ScoreCache,
	pol *policy.Policy,
	tiers *TierPolicy,
	logger *zap.Logger,
	cacheEnabled bool,
	cacheTTL time.Duration,
	workers int,
) *LeadScoringService {
	return &LeadScoringService{
		classifier:   classifier,
		cache:        cache,
		validator:    NewValidator(pol),
		extractor:    NewFeatureExtractor(pol),
		tiers:        tiers,
		logger:       logger,
		cacheEnabled: cacheEnabled,
		cacheTTL:     cacheTTL,
		workers:      workers,
		policySum:    pol.Checksum(),
		fpFields:     FingerprintFields(pol),
	}
}

// Model describes the classifier artifact currently serving inference.
func (s *LeadScoringService) Model() ModelInfo {
	return s.classifier.Info()
}

// ScoreLead runs the pipeline for a single lead. Unparseable fields
// degrade the features and are reported alongside the result; only a
// schema or model failure produces an error.
func (s *LeadScoringService) ScoreLead(ctx context.Context, lead RawLead) (*ScoreResult, []Degradation, error) {
	info := s.classifier.Info()
	if info.Version == "" {
		return nil, nil, ErrModelUnavailable
	}

	signals := s.validator.Validate(lead)
	for _, d := range signals.Degradations {
		s.logger.Debug("Field degraded during validation",
			zap.String("field", d.Field),
			zap.String("reason", d.Reason))
	}

	fingerprint := Fingerprint(lead, s.fpFields, info.Version, s.policySum)
	leadID := lead.ID()
	if leadID == "" {
		leadID = "lead-" + fingerprint[:12]
	}

	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, fingerprint); err == nil {
			s.logger.Debug("Cache hit for lead", zap.String("lead_id", leadID))
			return &ScoreResult{
				LeadID:        leadID,
				Score:         entry.Score,
				Category:      entry.Category,
				Contributions: entry.Contributions,
				ModelVersion:  entry.ModelVersion,
				ScoredAt:      time.Now(),
				FromCache:     true,
			}, signals.Degradations, nil
		}
	}

	features := s.extractor.Extract(lead, signals)
	prediction, err := s.classifier.Score(ctx, features)
	if err != nil {
		return nil, signals.Degradations, err
	}

	result := &ScoreResult{
		LeadID:        leadID,
		Score:         prediction.Score,
		Category:      s.tiers.Categorize(prediction.Score),
		Contributions: prediction.Contributions,
		ModelVersion:  info.Version,
		ScoredAt:      time.Now(),
	}

	if s.cacheEnabled {
		entry := &ScoreCacheEntry{
			Fingerprint:   fingerprint,
			Score:         result.Score,
			Category:      result.Category,
			Contributions: result.Contributions,
			ModelVersion:  result.ModelVersion,
			LastSeen:      time.Now(),
			ExpiresAt:     time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update score cache", zap.Error(err))
		}
	}

	s.logger.Debug("Lead scored",
		zap.String("lead_id", leadID),
		zap.Float64("score", result.Score),
		zap.String("category", string(result.Category)))

	return result, signals.Degradations, nil
}

// ScoreBatch fans the pipeline out across the batch. Every lead yields
// exactly one outcome at its input position: leads are never dropped or
// reordered, and a per-lead failure is recorded on its item instead of
// aborting the rest. Only a missing model or a canceled context fails the
// whole batch.
func (s *LeadScoringService) ScoreBatch(ctx context.Context, leads []RawLead) (*BatchResult, error) {
	info := s.classifier.Info()
	if info.Version == "" {
		return nil, ErrModelUnavailable
	}

	batchID := uuid.NewString()
	started := time.Now()
	items := make([]ScoredLead, len(leads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workerLimit())
	for i, lead := range leads {
		i, lead := i, lead
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, degradations, err := s.ScoreLead(ctx, lead)
			items[i] = ScoredLead{
				Lead:         lead,
				Result:       result,
				Degradations: degradations,
				Err:          err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := Summarize(items)
	for _, lead := range leads {
		if s.extractor.Complete(lead) {
			stats.CompleteProfiles++
		}
	}
	elapsed := time.Since(started)
	s.logger.Info("Scored lead batch",
		zap.String("batch_id", batchID),
		zap.Int("total", stats.Total),
		zap.Int("scored", stats.Scored),
		zap.Int("failed", stats.Failed),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Float64("avg_score", stats.AvgScore),
		zap.Duration("elapsed", elapsed))

	return &BatchResult{
		BatchID:      batchID,
		ModelVersion: info.Version,
		Items:        items,
		Stats:        stats,
		Elapsed:      elapsed,
	}, nil
}

func (s *LeadScoringService) workerLimit() int {
	if s.workers > 0 {
		return s.workers
	}
	return runtime.GOMAXPROCS(0)
}
