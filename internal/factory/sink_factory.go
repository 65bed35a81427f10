package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/leadlab/lead-quality-engine/internal/adapters/crm"
	"github.com/leadlab/lead-quality-engine/internal/adapters/events"
	"github.com/leadlab/lead-quality-engine/internal/config"
	"github.com/leadlab/lead-quality-engine/internal/core"
	"github.com/leadlab/lead-quality-engine/internal/ports"
	"github.com/leadlab/lead-quality-engine/internal/secrets"
)

// SinkFactory creates the optional result sinks that receive every batch
// after the scored CSV is written: the CRM uploader and the Kafka event
// stream. The scored-CSV sink itself is built per input file by the
// runner, not here.
type SinkFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSinkFactory creates a new sink factory
func NewSinkFactory(cfg *config.Config, logger *zap.Logger) *SinkFactory {
	return &SinkFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResultSinks creates every enabled sink. An empty slice is valid:
// scoring then ends at the outbox.
func (f *SinkFactory) CreateResultSinks(formatter *core.OutputFormatter) ([]ports.ResultSink, error) {
	var sinks []ports.ResultSink

	crmCfg := f.cfg.GetCRM()
	if crmCfg.Enabled {
		token, err := f.crmToken(crmCfg)
		if err != nil {
			return nil, err
		}
		uploader := crm.NewUploader(crmCfg.BaseURL, token, crmCfg.BatchSize, crmCfg.BatchRate, f.logger).
			WithSuppressedDomains(crmCfg.SuppressedDomains)
		sinks = append(sinks, uploader)
	}

	eventsCfg := f.cfg.GetEvents()
	if eventsCfg.Enabled {
		if len(eventsCfg.Brokers) == 0 {
			return nil, fmt.Errorf("events.enabled requires at least one broker")
		}
		sinks = append(sinks, events.NewProducer(
			eventsCfg.Brokers, eventsCfg.LeadsTopic, eventsCfg.BatchesTopic, formatter, f.logger))
	}

	return sinks, nil
}

// crmToken resolves the CRM access token: an explicit config value wins,
// otherwise the OS keychain is consulted. Tokens in config files are for
// development; deployments should use the keychain.
func (f *SinkFactory) crmToken(crmCfg config.CRMConfig) (string, error) {
	if crmCfg.Token != "" {
		return crmCfg.Token, nil
	}
	if crmCfg.KeyringAccount == "" {
		return "", fmt.Errorf("crm.enabled requires crm.token or crm.keyring_account")
	}
	token, err := secrets.GetCRMToken(crmCfg.KeyringAccount)
	if err != nil {
		return "", fmt.Errorf("failed to read CRM token from keychain: %w", err)
	}
	return token, nil
}
