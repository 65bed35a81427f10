package config

// ModelConfig represents the configuration for the classifier backend
type ModelConfig struct {
	Backend      string
	ArtifactDir  string
	AutoTrain    bool
	HotReload    bool
	TrainSamples int
	TrainSeed    int64
	Trees        int
	MaxDepth     int
}

// RunnerConfig represents the configuration for the batch runner
type RunnerConfig struct {
	Type      string
	InboxDir  string
	OutboxDir string
}

// OutputConfig represents the configuration for the output formatter
type OutputConfig struct {
	TopFeatures  int
	ScoredSuffix string
}

// CRMConfig represents the configuration for the CRM upload sink
type CRMConfig struct {
	Enabled           bool
	BaseURL           string
	Token             string
	KeyringAccount    string
	BatchSize         int
	BatchRate         float64
	SuppressedDomains []string
}

// EventsConfig represents the configuration for the Kafka event stream
type EventsConfig struct {
	Enabled      bool
	Brokers      []string
	LeadsTopic   string
	BatchesTopic string
}

// GetModel returns the classifier backend configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Backend:      c.GetString("model.backend"),
		ArtifactDir:  c.GetString("model.artifact_dir"),
		AutoTrain:    c.GetBool("model.auto_train"),
		HotReload:    c.GetBool("model.hot_reload"),
		TrainSamples: c.GetInt("model.train_samples"),
		TrainSeed:    c.GetInt64("model.train_seed"),
		Trees:        c.GetInt("model.trees"),
		MaxDepth:     c.GetInt("model.max_depth"),
	}
}

// GetRunner returns the batch runner configuration
func (c *Config) GetRunner() RunnerConfig {
	return RunnerConfig{
		Type:      c.GetString("runner.type"),
		InboxDir:  c.GetString("runner.inbox_dir"),
		OutboxDir: c.GetString("runner.outbox_dir"),
	}
}

// GetOutput returns the output formatter configuration
func (c *Config) GetOutput() OutputConfig {
	return OutputConfig{
		TopFeatures:  c.GetInt("output.top_features"),
		ScoredSuffix: c.GetString("output.scored_suffix"),
	}
}

// GetCRM returns the CRM sink configuration
func (c *Config) GetCRM() CRMConfig {
	return CRMConfig{
		Enabled:           c.GetBool("crm.enabled"),
		BaseURL:           c.GetString("crm.base_url"),
		Token:             c.GetString("crm.token"),
		KeyringAccount:    c.GetString("crm.keyring_account"),
		BatchSize:         c.GetInt("crm.batch_size"),
		BatchRate:         c.GetFloat64("crm.batch_rate"),
		SuppressedDomains: c.GetStringSlice("crm.suppressed_domains"),
	}
}

// GetEvents returns the event stream configuration
func (c *Config) GetEvents() EventsConfig {
	return EventsConfig{
		Enabled:      c.GetBool("events.enabled"),
		Brokers:      c.GetStringSlice("events.brokers"),
		LeadsTopic:   c.GetString("events.leads_topic"),
		BatchesTopic: c.GetString("events.batches_topic"),
	}
}
