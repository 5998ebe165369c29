package plugin

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/types"
)

// DefaultTimeout bounds a single hook call.
const DefaultTimeout = 5 * time.Second

// Registry manages all registered plugins and provides efficient dispatch.
// Hook lists are cached by type at registration.
type Registry struct {
	mu      sync.RWMutex
	plugins []Plugin
	logger  *slog.Logger
	timeout time.Duration

	onInit           []OnInit
	onShutdown       []OnShutdown
	onCommitted      []OnCommitted
	onLedgerCreated  []OnLedgerCreated
	onAdmitted       []OnAdmitted
	onPresaleStarted []OnPresaleStarted
	onItemMinted     []OnItemMinted
	onPauseChanged   []OnPauseChanged
	onTokensMinted   []OnTokensMinted
	onClaimed        []OnClaimed
	onWithdrawn      []OnWithdrawn
	onRejected       []OnRejected
}

// NewRegistry creates a new plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
}

// WithLogger sets the logger for the registry.
func (r *Registry) WithLogger(logger *slog.Logger) *Registry {
	r.logger = logger
	return r
}

// WithTimeout sets the per-hook timeout.
func (r *Registry) WithTimeout(d time.Duration) *Registry {
	r.timeout = d
	return r
}

// Register adds a plugin to the registry and caches its interfaces.
func (r *Registry) Register(p Plugin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.plugins {
		if existing.Name() == p.Name() {
			return fmt.Errorf("plugin: duplicate registration: %s", p.Name())
		}
	}

	r.plugins = append(r.plugins, p)

	if v, ok := p.(OnInit); ok {
		r.onInit = append(r.onInit, v)
	}
	if v, ok := p.(OnShutdown); ok {
		r.onShutdown = append(r.onShutdown, v)
	}
	if v, ok := p.(OnCommitted); ok {
		r.onCommitted = append(r.onCommitted, v)
	}
	if v, ok := p.(OnLedgerCreated); ok {
		r.onLedgerCreated = append(r.onLedgerCreated, v)
	}
	if v, ok := p.(OnAdmitted); ok {
		r.onAdmitted = append(r.onAdmitted, v)
	}
	if v, ok := p.(OnPresaleStarted); ok {
		r.onPresaleStarted = append(r.onPresaleStarted, v)
	}
	if v, ok := p.(OnItemMinted); ok {
		r.onItemMinted = append(r.onItemMinted, v)
	}
	if v, ok := p.(OnPauseChanged); ok {
		r.onPauseChanged = append(r.onPauseChanged, v)
	}
	if v, ok := p.(OnTokensMinted); ok {
		r.onTokensMinted = append(r.onTokensMinted, v)
	}
	if v, ok := p.(OnClaimed); ok {
		r.onClaimed = append(r.onClaimed, v)
	}
	if v, ok := p.(OnWithdrawn); ok {
		r.onWithdrawn = append(r.onWithdrawn, v)
	}
	if v, ok := p.(OnRejected); ok {
		r.onRejected = append(r.onRejected, v)
	}

	r.logger.Info("plugin registered",
		"name", p.Name(),
		"interfaces", implementedHooks(p),
	)

	return nil
}

var hookTypes = []struct {
	typ  reflect.Type
	name string
}{
	{reflect.TypeOf((*OnInit)(nil)).Elem(), "OnInit"},
	{reflect.TypeOf((*OnShutdown)(nil)).Elem(), "OnShutdown"},
	{reflect.TypeOf((*OnCommitted)(nil)).Elem(), "OnCommitted"},
	{reflect.TypeOf((*OnLedgerCreated)(nil)).Elem(), "OnLedgerCreated"},
	{reflect.TypeOf((*OnAdmitted)(nil)).Elem(), "OnAdmitted"},
	{reflect.TypeOf((*OnPresaleStarted)(nil)).Elem(), "OnPresaleStarted"},
	{reflect.TypeOf((*OnItemMinted)(nil)).Elem(), "OnItemMinted"},
	{reflect.TypeOf((*OnPauseChanged)(nil)).Elem(), "OnPauseChanged"},
	{reflect.TypeOf((*OnTokensMinted)(nil)).Elem(), "OnTokensMinted"},
	{reflect.TypeOf((*OnClaimed)(nil)).Elem(), "OnClaimed"},
	{reflect.TypeOf((*OnWithdrawn)(nil)).Elem(), "OnWithdrawn"},
	{reflect.TypeOf((*OnRejected)(nil)).Elem(), "OnRejected"},
}

func implementedHooks(p Plugin) []string {
	var names []string
	v := reflect.TypeOf(p)
	for _, h := range hookTypes {
		if v.Implements(h.typ) {
			names = append(names, h.name)
		}
	}
	return names
}

// Get returns a plugin by name.
func (r *Registry) Get(name string) Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.plugins {
		if p.Name() == name {
			return p
		}
	}
	return nil
}

// List returns all registered plugins.
func (r *Registry) List() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Plugin, len(r.plugins))
	copy(result, r.plugins)
	return result
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.plugins)
}

// ──────────────────────────────────────────────────
// Event emission methods
// ──────────────────────────────────────────────────

// emit runs fn for every plugin in hooks, logging failures.
func emit[T Plugin](ctx context.Context, r *Registry, hook string, hooks []T, fn func(T) error) {
	for _, p := range hooks {
		if err := r.callWithTimeout(ctx, p.Name(), func() error {
			return fn(p)
		}); err != nil {
			r.logger.Warn("plugin "+hook+" failed",
				"plugin", p.Name(),
				"error", err,
			)
		}
	}
}

// snapshot reads a cached hook list under the read lock.
func snapshot[T any](r *Registry, list *[]T) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *list
}

// EmitInit calls OnInit for all plugins that implement it.
func (r *Registry) EmitInit(ctx context.Context, ledger interface{}) {
	emit(ctx, r, "OnInit", snapshot(r, &r.onInit), func(p OnInit) error {
		return p.OnInit(ctx, ledger)
	})
}

// EmitShutdown calls OnShutdown for all plugins that implement it.
func (r *Registry) EmitShutdown(ctx context.Context) {
	emit(ctx, r, "OnShutdown", snapshot(r, &r.onShutdown), func(p OnShutdown) error {
		return p.OnShutdown(ctx)
	})
}

// EmitCommitted emits a committed transition.
func (r *Registry) EmitCommitted(ctx context.Context, t *journal.Transition, elapsed time.Duration) {
	emit(ctx, r, "OnCommitted", snapshot(r, &r.onCommitted), func(p OnCommitted) error {
		return p.OnCommitted(ctx, t, elapsed)
	})
}

// EmitLedgerCreated emits a ledger created event.
func (r *Registry) EmitLedgerCreated(ctx context.Context, ledgerID id.ID, admin types.Identity) {
	emit(ctx, r, "OnLedgerCreated", snapshot(r, &r.onLedgerCreated), func(p OnLedgerCreated) error {
		return p.OnLedgerCreated(ctx, ledgerID, admin)
	})
}

// EmitAdmitted emits an admission event.
func (r *Registry) EmitAdmitted(ctx context.Context, list id.AllowListID, who types.Identity) {
	emit(ctx, r, "OnAdmitted", snapshot(r, &r.onAdmitted), func(p OnAdmitted) error {
		return p.OnAdmitted(ctx, list, who)
	})
}

// EmitPresaleStarted emits a presale started event.
func (r *Registry) EmitPresaleStarted(ctx context.Context, coll id.CollectionID, endsAt time.Time) {
	emit(ctx, r, "OnPresaleStarted", snapshot(r, &r.onPresaleStarted), func(p OnPresaleStarted) error {
		return p.OnPresaleStarted(ctx, coll, endsAt)
	})
}

// EmitItemMinted emits an item minted event.
func (r *Registry) EmitItemMinted(ctx context.Context, coll id.CollectionID, tid item.TokenID, owner types.Identity, presale bool) {
	emit(ctx, r, "OnItemMinted", snapshot(r, &r.onItemMinted), func(p OnItemMinted) error {
		return p.OnItemMinted(ctx, coll, tid, owner, presale)
	})
}

// EmitPauseChanged emits a pause switch event.
func (r *Registry) EmitPauseChanged(ctx context.Context, coll id.CollectionID, paused bool) {
	emit(ctx, r, "OnPauseChanged", snapshot(r, &r.onPauseChanged), func(p OnPauseChanged) error {
		return p.OnPauseChanged(ctx, coll, paused)
	})
}

// EmitTokensMinted emits a token sale event.
func (r *Registry) EmitTokensMinted(ctx context.Context, ent id.EntitlementID, to types.Identity, units types.Amount) {
	emit(ctx, r, "OnTokensMinted", snapshot(r, &r.onTokensMinted), func(p OnTokensMinted) error {
		return p.OnTokensMinted(ctx, ent, to, units)
	})
}

// EmitClaimed emits a reward claim event.
func (r *Registry) EmitClaimed(ctx context.Context, ent id.EntitlementID, who types.Identity, items []item.TokenID, reward types.Amount) {
	emit(ctx, r, "OnClaimed", snapshot(r, &r.onClaimed), func(p OnClaimed) error {
		return p.OnClaimed(ctx, ent, who, items, reward)
	})
}

// EmitWithdrawn emits a custody withdrawal event.
func (r *Registry) EmitWithdrawn(ctx context.Context, ledgerID id.ID, to types.Identity, amount types.Amount) {
	emit(ctx, r, "OnWithdrawn", snapshot(r, &r.onWithdrawn), func(p OnWithdrawn) error {
		return p.OnWithdrawn(ctx, ledgerID, to, amount)
	})
}

// EmitRejected emits a rejection event.
func (r *Registry) EmitRejected(ctx context.Context, op string, ledgerID id.ID, caller types.Identity, err error) {
	emit(ctx, r, "OnRejected", snapshot(r, &r.onRejected), func(p OnRejected) error {
		return p.OnRejected(ctx, op, ledgerID, caller, err)
	})
}

// callWithTimeout calls a plugin function with a timeout.
func (r *Registry) callWithTimeout(ctx context.Context, pluginName string, fn func() error) error {
	done := make(chan error, 1)

	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(r.timeout):
		return fmt.Errorf("plugin timeout: %s", pluginName)
	case <-ctx.Done():
		return ctx.Err()
	}
}
