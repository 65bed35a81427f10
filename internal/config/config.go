package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/lead-quality-engine/")
	v.AddConfigPath("$HOME/.lead-quality-engine")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("LEAD_ENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Model defaults
	v.SetDefault("model.backend", "forest")
	v.SetDefault("model.artifact_dir", "/data/models")
	v.SetDefault("model.auto_train", true)
	v.SetDefault("model.hot_reload", true)
	v.SetDefault("model.train_samples", 1000)
	v.SetDefault("model.train_seed", 42)
	v.SetDefault("model.trees", 50)
	v.SetDefault("model.max_depth", 10)

	// Scoring policy defaults
	v.SetDefault("policy.file", "")

	// Batch defaults
	v.SetDefault("batch.workers", 0)

	// Runner defaults
	v.SetDefault("runner.type", "watch")
	v.SetDefault("runner.inbox_dir", "/data/inbox")
	v.SetDefault("runner.outbox_dir", "/data/outbox")
	v.SetDefault("runner.settle_delay", "500ms")

	// Output defaults
	v.SetDefault("output.top_features", 3)
	v.SetDefault("output.scored_suffix", "_scored")

	// CRM defaults
	v.SetDefault("crm.enabled", false)
	v.SetDefault("crm.base_url", "https://api.hubapi.com")
	v.SetDefault("crm.token", "")
	v.SetDefault("crm.keyring_account", "")
	v.SetDefault("crm.batch_size", 3)
	v.SetDefault("crm.batch_rate", 0.5)
	v.SetDefault("crm.suppressed_domains", []string{})

	// Event stream defaults
	v.SetDefault("events.enabled", false)
	v.SetDefault("events.brokers", []string{"localhost:9092"})
	v.SetDefault("events.leads_topic", "scored-leads")
	v.SetDefault("events.batches_topic", "lead-batches")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_frequency", "1h")
	v.SetDefault("cache.sqlite_path", "/data/score_cache.db")
	v.SetDefault("cache.mysql_dsn", "user:password@tcp(localhost:3306)/lead_engine")
	v.SetDefault("cache.postgres_dsn", "postgres://localhost:5432/lead_engine")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetInt64 gets an int64 value from the configuration
func (c *Config) GetInt64(key string) int64 {
	return c.v.GetInt64(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
