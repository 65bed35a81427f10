package di

import (
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/factory"
	"github.com/leadlab/lead-quality-engine/internal/logging"
	"github.com/leadlab/lead-quality-engine/internal/policy"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register scoring policy
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*policy.Policy, error) {
		path := cfg.GetString("policy.file")
		p, err := policy.Load(path)
		if err != nil {
			return nil, err
		}
		if path != "" {
			logger.Info("Loaded scoring policy", zap.String("file", path))
		}
		return &p, nil
	}); err != nil {
		return nil, err
	}

	// Register tier policy
	if err := container.Provide(func(p *policy.Policy) (*core.TierPolicy, error) {
		return core.NewTierPolicy(p.Tiers)
	}); err != nil {
		return nil, err
	}

	// Register artifact store
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) (*artifact.Store, error) {
		return artifact.NewStore(cfg.GetModel().ArtifactDir, logger)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSinkFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewRunnerFactory); err != nil {
		return nil, err
	}

	// Register classifier backend and its reload handle
	if err := container.Provide(func(f *factory.ClassifierFactory, store *artifact.Store) (core.Classifier, ports.ModelReloader, error) {
		return f.CreateClassifier(store)
	}); err != nil {
		return nil, err
	}

	// Register score cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.ScoreCache, error) {
		return f.CreateScoreCache()
	}); err != nil {
		return nil, err
	}

	// Register cache TTL and enabled flag
	if err := container.Provide(func(f *factory.CacheFactory) (time.Duration, error) {
		return f.GetCacheTTL()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.CacheFactory) bool {
		return f.IsCacheEnabled()
	}); err != nil {
		return nil, err
	}

	// Register batch worker limit
	if err := container.Provide(func(cfg *config.Config) int {
		return cfg.GetInt("batch.workers")
	}); err != nil {
		return nil, err
	}

	// Register lead scoring service
	if err := container.Provide(core.NewLeadScoringService); err != nil {
		return nil, err
	}

	// Register output formatter
	if err := container.Provide(func(cfg *config.Config) *core.OutputFormatter {
		return core.NewOutputFormatter(cfg.GetOutput().TopFeatures)
	}); err != nil {
		return nil, err
	}

	// Register result sinks
	if err := container.Provide(func(f *factory.SinkFactory, formatter *core.OutputFormatter) ([]ports.ResultSink, error) {
		return f.CreateResultSinks(formatter)
	}); err != nil {
		return nil, err
	}

	// Register batch runner
	if err := container.Provide(func(
		f *factory.RunnerFactory,
		formatter *core.OutputFormatter,
		sinks []ports.ResultSink,
		store *artifact.Store,
		reloader ports.ModelReloader,
	) (ports.BatchRunner, error) {
		return f.CreateBatchRunner(formatter, sinks, store, reloader)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
