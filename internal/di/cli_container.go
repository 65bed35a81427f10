package di

import (
	"flag"
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

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Model flags
	Backend     string
	ArtifactDir string
	NoAutoTrain bool

	// Scoring flags
	PolicyFile string
	Workers    int

	// Input/output flags
	InputFile  string
	OutputFile string
	Verbose    bool
	JSONLog    bool
	ConfigFile string
}

// ParseFlags parses command line flags and returns a CLIFlags struct
func ParseFlags() *CLIFlags {
	flags := &CLIFlags{}

	// Model flags
	flag.StringVar(&flags.Backend, "backend", "forest", "Classifier backend (forest, linear)")
	flag.StringVar(&flags.ArtifactDir, "artifact-dir", "./models", "Directory holding trained model artifacts")
	flag.BoolVar(&flags.NoAutoTrain, "no-auto-train", false, "Fail instead of training when no artifact exists")

	// Scoring flags
	flag.StringVar(&flags.PolicyFile, "policy", "", "Path to a scoring policy YAML file")
	flag.IntVar(&flags.Workers, "workers", 0, "Scoring worker count (0 = GOMAXPROCS)")

	// Input/output flags
	flag.StringVar(&flags.InputFile, "file", "", "Input lead CSV file (required)")
	flag.StringVar(&flags.OutputFile, "out", "", "Scored CSV output path (default: next to input)")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging and per-lead output")
	flag.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	flag.StringVar(&flags.ConfigFile, "config", "", "Path to config file (overrides command line flags)")

	flag.Parse()
	return flags
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		if flags.ConfigFile != "" {
			cfg, err := config.New()
			if err != nil {
				return nil, err
			}
			logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
			return cfg, nil
		}

		// Create config from command line flags
		return createConfigFromFlags(flags), nil
	}); err != nil {
		return nil, err
	}

	// Register scoring policy
	if err := container.Provide(func(cfg *config.Config) (*policy.Policy, error) {
		p, err := policy.Load(cfg.GetString("policy.file"))
		if err != nil {
			return nil, err
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
	if err := container.Provide(factory.NewRunnerFactory); err != nil {
		return nil, err
	}

	// Register classifier backend
	if err := container.Provide(func(f *factory.ClassifierFactory, store *artifact.Store) (core.Classifier, ports.ModelReloader, error) {
		return f.CreateClassifier(store)
	}); err != nil {
		return nil, err
	}

	// Register lead scoring service with no cache
	if err := container.Provide(func(
		classifier core.Classifier,
		p *policy.Policy,
		tiers *core.TierPolicy,
		logger *zap.Logger,
		flags *CLIFlags,
	) *core.LeadScoringService {
		return core.NewLeadScoringService(
			classifier,
			nil, // No cache for CLI
			p,
			tiers,
			logger,
			false,            // Cache disabled
			time.Duration(0), // No TTL
			flags.Workers,
		)
	}); err != nil {
		return nil, err
	}

	// Register output formatter
	if err := container.Provide(func(cfg *config.Config) *core.OutputFormatter {
		return core.NewOutputFormatter(cfg.GetOutput().TopFeatures)
	}); err != nil {
		return nil, err
	}

	// Register empty result sinks for CLI
	if err := container.Provide(func() []ports.ResultSink {
		return nil
	}); err != nil {
		return nil, err
	}

	// Register batch runner
	if err := container.Provide(func(
		f *factory.RunnerFactory,
		formatter *core.OutputFormatter,
		sinks []ports.ResultSink,
	) (ports.BatchRunner, error) {
		return f.CreateBatchRunner(formatter, sinks, nil, nil)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags(flags *CLIFlags) *config.Config {
	v := config.NewEmptyViper()

	// Set some cli specific settings
	v.Set("runner.type", "cli")
	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.output", flags.OutputFile)

	// Set model backend
	v.Set("model.backend", flags.Backend)
	v.Set("model.artifact_dir", flags.ArtifactDir)
	v.Set("model.auto_train", !flags.NoAutoTrain)
	v.Set("model.hot_reload", false)

	// Set scoring policy
	v.Set("policy.file", flags.PolicyFile)
	v.Set("batch.workers", flags.Workers)

	// CLI runs never cache
	v.Set("cache.enabled", false)

	return config.NewFromViper(v)
}
