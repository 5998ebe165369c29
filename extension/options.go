package extension

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/plugin"
	"github.com/xraph/mintledger/store"
)

// Option configures the mintledger Forge extension.
type Option func(*Extension)

// WithStore sets the journal store for the engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithGroveDB sets the grove.DB the journal store is built over. A non-empty
// driver names its dialect and wins over any configured StoreDriver; with an
// empty driver the dialect comes from configuration.
func WithGroveDB(db *grove.DB, driver string) Option {
	return func(e *Extension) {
		e.groveDB = db
		e.groveDriver = driver
	}
}

// WithLedgerOption passes a mintledger.Option through to the underlying engine.
func WithLedgerOption(opt mintledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers an engine plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, mintledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate skips store migration on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}

// WithReplayBatchSize sets the journal page size used on start.
func WithReplayBatchSize(n int) Option {
	return func(e *Extension) { e.config.ReplayBatchSize = n }
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}
