// Package audithook bridges mintledger transitions to an audit trail backend.
//
// It defines a local Recorder interface so the package does not import
// Chronicle directly. Callers inject a RecorderFunc adapter that bridges
// to Chronicle at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/plugin"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin           = (*Extension)(nil)
	_ plugin.OnLedgerCreated  = (*Extension)(nil)
	_ plugin.OnAdmitted       = (*Extension)(nil)
	_ plugin.OnPresaleStarted = (*Extension)(nil)
	_ plugin.OnItemMinted     = (*Extension)(nil)
	_ plugin.OnPauseChanged   = (*Extension)(nil)
	_ plugin.OnTokensMinted   = (*Extension)(nil)
	_ plugin.OnClaimed        = (*Extension)(nil)
	_ plugin.OnWithdrawn      = (*Extension)(nil)
	_ plugin.OnRejected       = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
// This matches chronicle.Emitter but is defined locally so that the
// audit_hook package does not import Chronicle directly.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges mintledger transitions to an audit trail backend.
type Extension struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger

	minSeverity string
}

var severityRank = map[string]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder:    r,
		logger:      slog.Default(),
		minSeverity: SeverityInfo,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnLedgerCreated implements plugin.OnLedgerCreated.
func (e *Extension) OnLedgerCreated(ctx context.Context, ledgerID id.ID, admin types.Identity) error {
	var action string
	switch ledgerID.Prefix() {
	case id.PrefixAllowList:
		action = ActionAllowListCreated
	case id.PrefixCollection:
		action = ActionCollectionCreated
	case id.PrefixEntitlement:
		action = ActionEntitlementCreated
	default:
		return nil
	}
	return e.record(ctx, action, SeverityInfo, OutcomeSuccess,
		resourceOf(ledgerID), ledgerID.String(), admin, CategoryAdministration, nil,
	)
}

// ──────────────────────────────────────────────────
// Allow-list hooks
// ──────────────────────────────────────────────────

// OnAdmitted implements plugin.OnAdmitted.
func (e *Extension) OnAdmitted(ctx context.Context, list id.AllowListID, who types.Identity) error {
	return e.record(ctx, ActionAdmitted, SeverityInfo, OutcomeSuccess,
		ResourceAllowList, list.String(), who, CategoryAccess, nil,
	)
}

// ──────────────────────────────────────────────────
// Collection hooks
// ──────────────────────────────────────────────────

// OnPresaleStarted implements plugin.OnPresaleStarted.
func (e *Extension) OnPresaleStarted(ctx context.Context, coll id.CollectionID, endsAt time.Time) error {
	return e.record(ctx, ActionPresaleStarted, SeverityInfo, OutcomeSuccess,
		ResourceCollection, coll.String(), types.NoIdentity, CategoryAdministration, nil,
		"ends_at", endsAt.Format(time.RFC3339),
	)
}

// OnItemMinted implements plugin.OnItemMinted.
func (e *Extension) OnItemMinted(ctx context.Context, coll id.CollectionID, tid item.TokenID, owner types.Identity, presale bool) error {
	return e.record(ctx, ActionItemMinted, SeverityInfo, OutcomeSuccess,
		ResourceCollection, coll.String(), owner, CategoryMinting, nil,
		"token_id", uint64(tid),
		"presale", presale,
	)
}

// OnPauseChanged implements plugin.OnPauseChanged.
func (e *Extension) OnPauseChanged(ctx context.Context, coll id.CollectionID, paused bool) error {
	action := ActionUnpaused
	if paused {
		action = ActionPaused
	}
	return e.record(ctx, action, SeverityWarning, OutcomeSuccess,
		ResourceCollection, coll.String(), types.NoIdentity, CategoryAdministration, nil,
	)
}

// ──────────────────────────────────────────────────
// Entitlement hooks
// ──────────────────────────────────────────────────

// OnTokensMinted implements plugin.OnTokensMinted.
func (e *Extension) OnTokensMinted(ctx context.Context, ent id.EntitlementID, to types.Identity, units types.Amount) error {
	return e.record(ctx, ActionTokensMinted, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, ent.String(), to, CategoryMinting, nil,
		"units", units.String(),
	)
}

// OnClaimed implements plugin.OnClaimed.
func (e *Extension) OnClaimed(ctx context.Context, ent id.EntitlementID, who types.Identity, items []item.TokenID, reward types.Amount) error {
	ids := make([]uint64, len(items))
	for i, tid := range items {
		ids[i] = uint64(tid)
	}
	return e.record(ctx, ActionClaimed, SeverityInfo, OutcomeSuccess,
		ResourceEntitlement, ent.String(), who, CategoryRewards, nil,
		"items", ids,
		"reward", reward.String(),
	)
}

// ──────────────────────────────────────────────────
// Custody hooks
// ──────────────────────────────────────────────────

// OnWithdrawn implements plugin.OnWithdrawn.
func (e *Extension) OnWithdrawn(ctx context.Context, ledgerID id.ID, to types.Identity, amount types.Amount) error {
	return e.record(ctx, ActionWithdrawn, SeverityInfo, OutcomeSuccess,
		resourceOf(ledgerID), ledgerID.String(), to, CategoryPayment, nil,
		"amount", amount.String(),
	)
}

// OnRejected implements plugin.OnRejected. Authorization failures are
// recorded with warning severity.
func (e *Extension) OnRejected(ctx context.Context, op string, ledgerID id.ID, caller types.Identity, err error) error {
	severity := SeverityInfo
	if reason.CategoryOf(err) == reason.CategoryAuthorization {
		severity = SeverityWarning
	}
	return e.record(ctx, ActionRejected, severity, OutcomeFailure,
		resourceOf(ledgerID), ledgerID.String(), caller, CategoryAccess, err,
		"operation", op,
		"code", string(reason.CodeOf(err)),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// record builds and sends an audit event if the action is enabled.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID string,
	actor types.Identity,
	category string,
	err error,
	kvPairs ...any,
) error {
	if e.enabled != nil && !e.enabled[action] {
		return nil
	}
	if severityRank[severity] < severityRank[e.minSeverity] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var why string
	if err != nil {
		why = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     why,
	}
	if actor != types.NoIdentity {
		evt.Actor = actor.Hex()
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}

func resourceOf(ledgerID id.ID) string {
	switch ledgerID.Prefix() {
	case id.PrefixAllowList:
		return ResourceAllowList
	case id.PrefixCollection:
		return ResourceCollection
	case id.PrefixEntitlement:
		return ResourceEntitlement
	default:
		return string(ledgerID.Prefix())
	}
}
