package mintledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/entitlement"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/plugin"
	"github.com/xraph/mintledger/store"
	"github.com/xraph/mintledger/types"
)

// DefaultReplayBatchSize is the page size used when replaying the journal.
const DefaultReplayBatchSize = 500

// Ledger is the engine hosting every allow-list, collection and
// entitlement ledger. All operations are serialized; views run concurrently
// with each other.
type Ledger struct {
	store   store.Store
	plugins *plugin.Registry
	logger  *slog.Logger
	clock   func() time.Time

	// Configuration
	replayBatchSize int
	autoMigrate     bool

	mu           sync.RWMutex
	started      bool
	seq          uint64
	allowLists   map[string]*allowlist.Ledger
	collections  map[string]*item.Ledger
	entitlements map[string]*entitlement.Ledger
	payouts      map[types.Identity]types.Amount
}

// New creates a new engine over the given store. Call Start before use.
func New(s store.Store, opts ...Option) *Ledger {
	l := &Ledger{
		store:           s,
		plugins:         plugin.NewRegistry(),
		logger:          slog.Default(),
		clock:           time.Now,
		replayBatchSize: DefaultReplayBatchSize,
		autoMigrate:     true,
	}
	l.reset()

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Option configures a Ledger instance.
type Option func(*Ledger)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
		l.plugins.WithLogger(logger)
	}
}

// WithPlugin registers a plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(l *Ledger) {
		_ = l.plugins.Register(p) //nolint:errcheck // best-effort plugin registration during init
	}
}

// WithClock sets the clock read once per operation. Readings are truncated
// to whole seconds.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithReplayBatchSize sets how many transitions are read per page on Start.
func WithReplayBatchSize(n int) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.replayBatchSize = n
		}
	}
}

// WithAutoMigrate controls whether Start migrates the store before replay.
func WithAutoMigrate(enabled bool) Option {
	return func(l *Ledger) {
		l.autoMigrate = enabled
	}
}

// WithPluginTimeout bounds every plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.plugins.WithTimeout(d)
		}
	}
}

// Plugins returns the plugin registry.
func (l *Ledger) Plugins() *plugin.Registry { return l.plugins }

// Store returns the underlying journal store.
func (l *Ledger) Store() store.Store { return l.store }

// Start migrates the store and rebuilds every ledger from the journal.
func (l *Ledger) Start(ctx context.Context) error {
	if l.autoMigrate {
		if err := l.store.Migrate(ctx); err != nil {
			return err
		}
	}

	l.mu.Lock()
	l.reset()
	replayed, err := l.replay(ctx)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.started = true
	attrs := []any{
		"replayed", replayed,
		"seq", l.seq,
		"allow_lists", len(l.allowLists),
		"collections", len(l.collections),
		"entitlements", len(l.entitlements),
	}
	l.mu.Unlock()

	l.plugins.EmitInit(ctx, l)

	l.logger.Info("mintledger started", attrs...)

	return nil
}

// Stop shuts down the engine and closes the store.
func (l *Ledger) Stop() error {
	l.mu.Lock()
	l.started = false
	l.mu.Unlock()

	ctx := context.Background()
	l.plugins.EmitShutdown(ctx)

	l.logger.Info("mintledger stopped")
	return l.store.Close()
}

func (l *Ledger) reset() {
	l.seq = 0
	l.allowLists = make(map[string]*allowlist.Ledger)
	l.collections = make(map[string]*item.Ledger)
	l.entitlements = make(map[string]*entitlement.Ledger)
	l.payouts = make(map[types.Identity]types.Amount)
}

// replay applies every journaled transition in order. Callers hold mu.
func (l *Ledger) replay(ctx context.Context) (int, error) {
	count := 0
	for {
		page, err := l.store.List(ctx, journal.ListOpts{
			AfterSeq: l.seq,
			Limit:    l.replayBatchSize,
		})
		if err != nil {
			return count, fmt.Errorf("mintledger: replay: %w", err)
		}
		for _, t := range page {
			if t.Seq != l.seq+1 {
				return count, fmt.Errorf("%w: expected seq %d, found %d", ErrCorruptJournal, l.seq+1, t.Seq)
			}
			st, err := l.stage(t)
			if err != nil {
				return count, fmt.Errorf("%w: seq %d (%s): %w", ErrCorruptJournal, t.Seq, t.Kind, err)
			}
			l.commit(t, st)
			count++
		}
		if len(page) < l.replayBatchSize {
			return count, nil
		}
	}
}

// now reads the clock once, at second resolution.
func (l *Ledger) now() time.Time {
	return time.Unix(l.clock().Unix(), 0).UTC()
}
