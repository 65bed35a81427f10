package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/runner"
	"github.com/leadlab/lead-quality-engine/internal/artifact"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/ports"
)

// RunnerFactory creates batch runners based on configuration
type RunnerFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.LeadScoringService
}

// NewRunnerFactory creates a new runner factory
func NewRunnerFactory(cfg *config.Config, logger *zap.Logger, service *core.LeadScoringService) *RunnerFactory {
	return &RunnerFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateBatchRunner creates a batch runner based on the configuration
func (f *RunnerFactory) CreateBatchRunner(
	formatter *core.OutputFormatter,
	sinks []ports.ResultSink,
	store *artifact.Store,
	reloader ports.ModelReloader,
) (ports.BatchRunner, error) {
	runnerType := f.cfg.GetString("runner.type")
	outputCfg := f.cfg.GetOutput()

	switch runnerType {
	case "watch":
		runnerCfg := f.cfg.GetRunner()
		settleDelay, err := f.cfg.GetDuration("runner.settle_delay")
		if err != nil {
			settleDelay = 500 * time.Millisecond
		}
		if !f.cfg.GetModel().HotReload {
			store, reloader = nil, nil
		}
		return runner.NewWatchRunner(
			f.service,
			formatter,
			sinks,
			store,
			reloader,
			runnerCfg.InboxDir,
			runnerCfg.OutboxDir,
			outputCfg.ScoredSuffix,
			settleDelay,
			f.logger,
		), nil
	case "cli":
		return runner.NewCliRunner(
			f.service,
			formatter,
			sinks,
			f.cfg.GetString("cli.output"),
			outputCfg.ScoredSuffix,
			f.cfg.GetBool("cli.verbose"),
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported runner type: %s", runnerType)
	}
}
