// Package plugin provides an extensible plugin system for mintledger.
// Plugins hook into committed transitions and rejections. Hooks run after
// the engine has released its lock, so a slow or failing plugin never
// affects the ledgers.
package plugin

import (
	"context"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/types"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called once the engine has replayed its journal.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l interface{}) error
}

// OnShutdown is called when the engine stops.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// OnCommitted is called for every journaled transition.
type OnCommitted interface {
	Plugin
	OnCommitted(ctx context.Context, t *journal.Transition, elapsed time.Duration) error
}

// OnLedgerCreated is called when an allow-list, collection or entitlement
// ledger is created. The kind is the ledger id's prefix.
type OnLedgerCreated interface {
	Plugin
	OnLedgerCreated(ctx context.Context, ledgerID id.ID, admin types.Identity) error
}

// ──────────────────────────────────────────────────
// Allow-list hooks
// ──────────────────────────────────────────────────

// OnAdmitted is called when an identity joins an allow-list.
type OnAdmitted interface {
	Plugin
	OnAdmitted(ctx context.Context, list id.AllowListID, who types.Identity) error
}

// ──────────────────────────────────────────────────
// Collection hooks
// ──────────────────────────────────────────────────

// OnPresaleStarted is called when a collection opens its presale window.
type OnPresaleStarted interface {
	Plugin
	OnPresaleStarted(ctx context.Context, coll id.CollectionID, endsAt time.Time) error
}

// OnItemMinted is called for every minted item.
type OnItemMinted interface {
	Plugin
	OnItemMinted(ctx context.Context, coll id.CollectionID, tid item.TokenID, owner types.Identity, presale bool) error
}

// OnPauseChanged is called when the admin flips the pause switch.
type OnPauseChanged interface {
	Plugin
	OnPauseChanged(ctx context.Context, coll id.CollectionID, paused bool) error
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTokensMinted is called when tokens are sold. Units are base units.
type OnTokensMinted interface {
	Plugin
	OnTokensMinted(ctx context.Context, ent id.EntitlementID, to types.Identity, units types.Amount) error
}

// OnClaimed is called when a holder claims rewards for its items.
type OnClaimed interface {
	Plugin
	OnClaimed(ctx context.Context, ent id.EntitlementID, who types.Identity, items []item.TokenID, reward types.Amount) error
}

// ──────────────────────────────────────────────────
// Custody hooks
// ──────────────────────────────────────────────────

// OnWithdrawn is called when an admin withdraws custody.
type OnWithdrawn interface {
	Plugin
	OnWithdrawn(ctx context.Context, ledgerID id.ID, to types.Identity, amount types.Amount) error
}

// OnRejected is called when an operation is rejected by a ledger rule.
type OnRejected interface {
	Plugin
	OnRejected(ctx context.Context, op string, ledgerID id.ID, caller types.Identity, err error) error
}
