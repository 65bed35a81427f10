package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/forest"
	"github.com/leadlab/lead-quality-engine/internal/adapters/linear"
	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/corpus"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

// ClassifierFactory creates classifier backends based on configuration
type ClassifierFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// classifierBackend is what every backend adapter satisfies: scoring plus
// artifact install.
type classifierBackend interface {
	core.Classifier
	ports.ModelReloader
}

// CreateClassifier builds the configured backend and installs a model:
// the store's latest artifact when one matches the backend, otherwise a
// freshly trained one when auto_train is on.
func (f *ClassifierFactory) CreateClassifier(store *artifact.Store) (core.Classifier, ports.ModelReloader, error) {
	mc := f.cfg.GetModel()

	var backend classifierBackend
	switch mc.Backend {
	case "forest":
		backend = forest.NewClassifier(f.logger)
	case "linear":
		backend = linear.NewClassifier(f.logger)
	default:
		return nil, nil, fmt.Errorf("unsupported model backend: %s", mc.Backend)
	}

	a, err := store.LoadLatest()
	if err == nil && a.Algorithm == mc.Backend {
		if err := backend.LoadArtifact(a); err != nil {
			return nil, nil, fmt.Errorf("failed to load stored artifact: %w", err)
		}
		return backend, backend, nil
	}

	if !mc.AutoTrain {
		return nil, nil, fmt.Errorf("no usable %s artifact in %s and auto_train is off: %w",
			mc.Backend, store.Dir(), core.ErrModelUnavailable)
	}

	f.logger.Info("No stored artifact, training a fresh model",
		zap.String("backend", mc.Backend),
		zap.Int("samples", mc.TrainSamples),
		zap.Int64("seed", mc.TrainSeed))
	a, err = TrainArtifact(mc)
	if err != nil {
		return nil, nil, err
	}
	if _, err := store.Save(a); err != nil {
		return nil, nil, fmt.Errorf("failed to store trained artifact: %w", err)
	}
	if err := backend.LoadArtifact(a); err != nil {
		return nil, nil, fmt.Errorf("failed to load trained artifact: %w", err)
	}
	return backend, backend, nil
}

// TrainArtifact trains a model on the synthetic corpus and packs it into
// a versioned artifact. Used by both the daemon's auto-train path and the
// trainer command; identical settings always yield an identical artifact.
func TrainArtifact(mc config.ModelConfig) (*artifact.Artifact, error) {
	samples := mc.TrainSamples
	if samples <= 0 {
		samples = 1000
	}
	seed := mc.TrainSeed
	if seed == 0 {
		seed = 42
	}
	ds := corpus.Synthetic(samples, seed)

	var (
		params any
		acc    float64
	)
	switch mc.Backend {
	case "forest":
		model, err := forest.Train(ds, forest.Options{
			Trees:    mc.Trees,
			MaxDepth: mc.MaxDepth,
			Seed:     seed,
		})
		if err != nil {
			return nil, fmt.Errorf("forest training failed: %w", err)
		}
		params = model
		acc = trainAccuracy(model, ds)
	case "linear":
		model, err := linear.Train(ds, linear.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("linear training failed: %w", err)
		}
		params = model
		acc = trainAccuracy(model, ds)
	default:
		return nil, fmt.Errorf("unsupported model backend: %s", mc.Backend)
	}

	a, err := artifact.New(mc.Backend, ds.FeatureNames, time.Now().UTC(), params)
	if err != nil {
		return nil, err
	}
	a.Training = &artifact.TrainingInfo{
		Samples:   ds.Len(),
		Positives: ds.Positives(),
		Seed:      seed,
		Accuracy:  acc,
	}
	return a, nil
}

type predictor interface {
	Predict(features []float64) (float64, []float64)
}

// trainAccuracy is the fraction of corpus labels the model reproduces at
// the 0.5 cut. Resubstitution accuracy, informational only.
func trainAccuracy(m predictor, ds *corpus.Dataset) float64 {
	if ds.Len() == 0 {
		return 0
	}
	correct := 0
	for i, row := range ds.Rows {
		prob, _ := m.Predict(row)
		if (prob >= 0.5) == ds.Labels[i] {
			correct++
		}
	}
	return float64(correct) / float64(ds.Len())
}
