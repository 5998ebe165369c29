// Package extension provides the Forge extension adapter for mintledger.
//
// It implements the forge.Extension interface to integrate the engine
// into a Forge application with DI registration and lifecycle management.
//
// Configuration can be provided programmatically via Option functions,
// via YAML configuration files under "extensions.mintledger" or
// "mintledger" keys, or via MINTLEDGER_* environment variables.
package extension

import (
	"context"
	"errors"
	"fmt"

	"github.com/xraph/forge"
	"github.com/xraph/grove"
	"github.com/xraph/vessel"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/store"
	"github.com/xraph/mintledger/store/memory"
	mongostore "github.com/xraph/mintledger/store/mongo"
	"github.com/xraph/mintledger/store/postgres"
	"github.com/xraph/mintledger/store/sqlite"
)

// ExtensionName is the name registered with Forge.
const ExtensionName = "mintledger"

// ExtensionDescription is the human-readable description.
const ExtensionDescription = "Allow-listed item sales and claimable token rewards"

// ExtensionVersion is the semantic version.
const ExtensionVersion = "0.1.0"

// Ensure Extension implements forge.Extension at compile time.
var _ forge.Extension = (*Extension)(nil)

// Extension adapts mintledger as a Forge extension.
type Extension struct {
	*forge.BaseExtension

	config      Config
	engine      *mintledger.Ledger
	store       store.Store
	groveDB     *grove.DB
	groveDriver string
	ledgerOpts  []mintledger.Option
}

// New creates a new mintledger Forge extension with the given options.
func New(opts ...Option) *Extension {
	e := &Extension{
		BaseExtension: forge.NewBaseExtension(ExtensionName, ExtensionVersion, ExtensionDescription),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Engine returns the underlying engine.
// This is nil until Register is called.
func (e *Extension) Engine() *mintledger.Ledger { return e.engine }

// Register implements [forge.Extension]. It loads configuration,
// builds the journal store and engine, and registers the engine in the
// DI container.
func (e *Extension) Register(fapp forge.App) error {
	if err := e.BaseExtension.Register(fapp); err != nil {
		return err
	}

	if err := e.loadConfiguration(); err != nil {
		return err
	}

	s, err := e.buildStore()
	if err != nil {
		return err
	}
	e.store = s

	e.engine = mintledger.New(e.store, e.buildLedgerOpts()...)

	return vessel.Provide(fapp.Container(), func() (*mintledger.Ledger, error) {
		return e.engine, nil
	})
}

// Start implements [forge.Extension]. The engine replays its journal
// before the extension is marked started.
func (e *Extension) Start(ctx context.Context) error {
	if e.engine == nil {
		return errors.New("mintledger: extension not initialized")
	}

	if err := e.engine.Start(ctx); err != nil {
		return err
	}

	e.MarkStarted()
	return nil
}

// Stop implements [forge.Extension].
func (e *Extension) Stop(_ context.Context) error {
	if e.engine != nil {
		if err := e.engine.Stop(); err != nil {
			e.MarkStopped()
			return err
		}
	}
	e.MarkStopped()
	return nil
}

// Health implements [forge.Extension].
func (e *Extension) Health(ctx context.Context) error {
	if e.store == nil {
		return errors.New("mintledger: store not initialized")
	}
	return e.store.Ping(ctx)
}

// buildStore picks the journal backend. A store set with WithStore wins;
// otherwise the driver named by WithGroveDB, or failing that the configured
// one, is built over the grove.DB.
func (e *Extension) buildStore() (store.Store, error) {
	if e.store != nil {
		return e.store, nil
	}

	driver := e.config.StoreDriver
	if e.groveDB == nil {
		if driver != "" && driver != DriverMemory {
			return nil, fmt.Errorf("mintledger: store driver %q requires a grove database", driver)
		}
		return memory.New(), nil
	}

	if e.groveDriver != "" {
		driver = e.groveDriver
	}
	switch driver {
	case DriverSQLite:
		return sqlite.New(e.groveDB), nil
	case DriverPostgres:
		return postgres.New(e.groveDB), nil
	case DriverMongo:
		return mongostore.New(e.groveDB), nil
	default:
		return nil, fmt.Errorf("mintledger: grove database needs a sqlite, postgres or mongo store driver (got %q)", driver)
	}
}

// buildLedgerOpts constructs mintledger.Option values from the resolved config.
func (e *Extension) buildLedgerOpts() []mintledger.Option {
	opts := make([]mintledger.Option, 0, len(e.ledgerOpts)+3)

	opts = append(opts, mintledger.WithAutoMigrate(!e.config.DisableMigrate))
	if e.config.ReplayBatchSize > 0 {
		opts = append(opts, mintledger.WithReplayBatchSize(e.config.ReplayBatchSize))
	}
	if e.config.PluginTimeout > 0 {
		opts = append(opts, mintledger.WithPluginTimeout(e.config.PluginTimeout))
	}

	// Append any pass-through engine options.
	opts = append(opts, e.ledgerOpts...)

	return opts
}

// --- Config Loading (mirrors grove/shield extension pattern) ---

// loadConfiguration loads config from YAML files, the environment or
// programmatic sources.
func (e *Extension) loadConfiguration() error {
	fileConfig, configLoaded := e.tryLoadFromConfigFile()

	cfg, err := e.resolveConfig(fileConfig, configLoaded)
	if err != nil {
		return err
	}
	e.config = cfg

	e.Logger().Debug("mintledger: configuration loaded",
		forge.F("from_file", configLoaded),
		forge.F("disable_migrate", e.config.DisableMigrate),
		forge.F("replay_batch_size", e.config.ReplayBatchSize),
		forge.F("plugin_timeout", e.config.PluginTimeout),
		forge.F("store_driver", e.config.StoreDriver),
	)

	return nil
}

// resolveConfig merges the file config (when loaded) or the environment
// with the programmatic config and fills defaults.
func (e *Extension) resolveConfig(fileConfig Config, configLoaded bool) (Config, error) {
	programmaticConfig := e.config

	var cfg Config
	if configLoaded {
		cfg = e.mergeConfigurations(fileConfig, programmaticConfig)
	} else {
		envConfig, err := ConfigFromEnv()
		if err != nil {
			return Config{}, fmt.Errorf("mintledger: %w", err)
		}
		if programmaticConfig.RequireConfig || envConfig.RequireConfig {
			return Config{}, errors.New("mintledger: configuration is required but not found in config files; " +
				"ensure 'extensions.mintledger' or 'mintledger' key exists in your config")
		}
		cfg = e.mergeConfigurations(envConfig, programmaticConfig)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// tryLoadFromConfigFile attempts to load config from YAML files.
func (e *Extension) tryLoadFromConfigFile() (Config, bool) {
	cm := e.App().Config()

	for _, key := range []string{"extensions.mintledger", "mintledger"} {
		if !cm.IsSet(key) {
			continue
		}
		var cfg Config
		if err := cm.Bind(key, &cfg); err != nil {
			e.Logger().Warn("mintledger: failed to bind config",
				forge.F("key", key),
				forge.F("error", err.Error()),
			)
			continue
		}
		e.Logger().Debug("mintledger: loaded config from file",
			forge.F("key", key),
		)
		return cfg, true
	}

	return Config{}, false
}

// mergeWithDefaults fills zero-valued fields with defaults. The store
// driver is left empty when a grove.DB is set, since memory cannot use it.
func (e *Extension) mergeWithDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if cfg.ReplayBatchSize == 0 {
		cfg.ReplayBatchSize = defaults.ReplayBatchSize
	}
	if cfg.PluginTimeout == 0 {
		cfg.PluginTimeout = defaults.PluginTimeout
	}
	if cfg.StoreDriver == "" && e.groveDB == nil {
		cfg.StoreDriver = defaults.StoreDriver
	}
	return cfg
}

// mergeConfigurations merges loaded config with programmatic options.
// Loaded config takes precedence for most fields; programmatic values fill gaps.
func (e *Extension) mergeConfigurations(loaded, programmaticConfig Config) Config {
	// Programmatic bool flags override when true.
	if programmaticConfig.DisableMigrate {
		loaded.DisableMigrate = true
	}
	if programmaticConfig.RequireConfig {
		loaded.RequireConfig = true
	}

	if loaded.StoreDriver == "" && programmaticConfig.StoreDriver != "" {
		loaded.StoreDriver = programmaticConfig.StoreDriver
	}
	if loaded.ReplayBatchSize == 0 && programmaticConfig.ReplayBatchSize != 0 {
		loaded.ReplayBatchSize = programmaticConfig.ReplayBatchSize
	}
	if loaded.PluginTimeout == 0 && programmaticConfig.PluginTimeout != 0 {
		loaded.PluginTimeout = programmaticConfig.PluginTimeout
	}

	// Fill remaining zeros with defaults.
	return e.mergeWithDefaults(loaded)
}
