package extension

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store drivers understood by the extension.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds the mintledger extension configuration.
// Fields can be set programmatically via Option functions, loaded from
// YAML configuration files (under "extensions.mintledger" or "mintledger"
// keys) or, when neither file key is present, read from MINTLEDGER_*
// environment variables.
type Config struct {
	// DisableMigrate skips store migration on start. The journal is still
	// replayed.
	DisableMigrate bool `env:"MINTLEDGER_DISABLE_MIGRATE" json:"disable_migrate" mapstructure:"disable_migrate" yaml:"disable_migrate"`

	// ReplayBatchSize is the number of journal entries read per page when
	// the engine rebuilds its state (default: 500).
	ReplayBatchSize int `env:"MINTLEDGER_REPLAY_BATCH_SIZE" json:"replay_batch_size" mapstructure:"replay_batch_size" yaml:"replay_batch_size"`

	// PluginTimeout bounds each plugin hook call (default: 5s).
	PluginTimeout time.Duration `env:"MINTLEDGER_PLUGIN_TIMEOUT" json:"plugin_timeout" mapstructure:"plugin_timeout" yaml:"plugin_timeout"`

	// StoreDriver selects the journal backend built over the grove.DB passed
	// with WithGroveDB: sqlite, postgres or mongo. Ignored when a store is
	// set with WithStore; "memory" or empty without a grove.DB.
	StoreDriver string `env:"MINTLEDGER_STORE_DRIVER" json:"store_driver" mapstructure:"store_driver" yaml:"store_driver"`

	// RequireConfig requires config to be present in YAML files.
	// If true and no config is found, Register returns an error.
	RequireConfig bool `env:"MINTLEDGER_REQUIRE_CONFIG" json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReplayBatchSize: 500,
		PluginTimeout:   5 * time.Second,
		StoreDriver:     DriverMemory,
	}
}

// Validate reports unknown store drivers and negative sizes.
func (c Config) Validate() error {
	switch c.StoreDriver {
	case "", DriverMemory, DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return fmt.Errorf("mintledger: unknown store driver %q", c.StoreDriver)
	}
	if c.ReplayBatchSize < 0 {
		return fmt.Errorf("mintledger: replay batch size must not be negative, got %d", c.ReplayBatchSize)
	}
	if c.PluginTimeout < 0 {
		return fmt.Errorf("mintledger: plugin timeout must not be negative, got %s", c.PluginTimeout)
	}
	return nil
}

// ConfigFromEnv reads MINTLEDGER_* environment variables into a Config.
// Unset variables leave zero values.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
