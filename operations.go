package mintledger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/entitlement"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/types"
)

// ──────────────────────────────────────────────────
// Ledger creation
// ──────────────────────────────────────────────────

// CreateAllowList creates an allow-list administered by the caller.
func (l *Ledger) CreateAllowList(ctx context.Context, cfg allowlist.Config) (id.AllowListID, error) {
	ledgerID := id.NewAllowListID()
	if err := l.create(ctx, journal.KindAllowListCreated, ledgerID, id.Nil, cfg, cfg.Validate()); err != nil {
		return id.Nil, err
	}
	return ledgerID, nil
}

// CreateCollection creates an item collection administered by the caller
// that reads list during its presale.
func (l *Ledger) CreateCollection(ctx context.Context, list id.AllowListID, cfg item.Config) (id.CollectionID, error) {
	ledgerID := id.NewCollectionID()
	if err := l.create(ctx, journal.KindCollectionCreated, ledgerID, list, cfg, cfg.Validate()); err != nil {
		return id.Nil, err
	}
	return ledgerID, nil
}

// CreateEntitlement creates an entitlement ledger administered by the caller
// whose claims are keyed off coll.
func (l *Ledger) CreateEntitlement(ctx context.Context, coll id.CollectionID, cfg entitlement.Config) (id.EntitlementID, error) {
	ledgerID := id.NewEntitlementID()
	if err := l.create(ctx, journal.KindEntitlementCreated, ledgerID, coll, cfg, cfg.Validate()); err != nil {
		return id.Nil, err
	}
	return ledgerID, nil
}

func (l *Ledger) create(ctx context.Context, kind journal.Kind, ledgerID, ref id.ID, cfg any, invalid error) error {
	if invalid != nil {
		return ValidationError{Field: "config", Message: invalid.Error()}
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("mintledger: encode %s config: %w", kind, err)
	}

	_, err = l.execute(ctx, "create", &journal.Transition{
		Kind:   kind,
		Ledger: ledgerID,
		Ref:    ref,
		Config: raw,
	})
	if err != nil {
		return err
	}

	l.logger.Info("ledger created",
		"kind", kind,
		"ledger", ledgerID.String(),
	)
	return nil
}

// ──────────────────────────────────────────────────
// Allow-list operations
// ──────────────────────────────────────────────────

// Admit adds the caller to list.
func (l *Ledger) Admit(ctx context.Context, list id.AllowListID) error {
	_, err := l.execute(ctx, "admit", &journal.Transition{
		Kind:   journal.KindAdmitted,
		Ledger: list,
	})
	return err
}

// ──────────────────────────────────────────────────
// Collection operations
// ──────────────────────────────────────────────────

// StartPresale opens the presale window of coll. Admin only.
func (l *Ledger) StartPresale(ctx context.Context, coll id.CollectionID) error {
	_, err := l.execute(ctx, "start_presale", &journal.Transition{
		Kind:   journal.KindPresaleStarted,
		Ledger: coll,
	})
	return err
}

// PresaleMint mints the next item of coll to an allow-listed caller.
func (l *Ledger) PresaleMint(ctx context.Context, coll id.CollectionID, payment types.Amount) (item.TokenID, error) {
	st, err := l.execute(ctx, "presale_mint", &journal.Transition{
		Kind:   journal.KindPresaleMinted,
		Ledger: coll,
		Value:  payment,
	})
	if err != nil {
		return 0, err
	}
	return st.tokenID, nil
}

// Mint mints the next item of coll to the caller after the presale.
func (l *Ledger) Mint(ctx context.Context, coll id.CollectionID, payment types.Amount) (item.TokenID, error) {
	st, err := l.execute(ctx, "mint", &journal.Transition{
		Kind:   journal.KindMinted,
		Ledger: coll,
		Value:  payment,
	})
	if err != nil {
		return 0, err
	}
	return st.tokenID, nil
}

// SetPaused flips the pause switch of coll. Admin only.
func (l *Ledger) SetPaused(ctx context.Context, coll id.CollectionID, paused bool) error {
	_, err := l.execute(ctx, "set_paused", &journal.Transition{
		Kind:   journal.KindPauseSet,
		Ledger: coll,
		Flag:   paused,
	})
	return err
}

// ──────────────────────────────────────────────────
// Entitlement operations
// ──────────────────────────────────────────────────

// MintTokens sells amount whole tokens of ent to the caller and returns the
// base units credited.
func (l *Ledger) MintTokens(ctx context.Context, ent id.EntitlementID, amount, payment types.Amount) (types.Amount, error) {
	st, err := l.execute(ctx, "mint_tokens", &journal.Transition{
		Kind:   journal.KindTokensMinted,
		Ledger: ent,
		Value:  payment,
		Amount: amount,
	})
	if err != nil {
		return types.Zero(), err
	}
	return st.units, nil
}

// Claim credits the caller's reward for every unclaimed item it holds in
// the collection linked to ent. It returns the reward in base units.
func (l *Ledger) Claim(ctx context.Context, ent id.EntitlementID) (types.Amount, error) {
	st, err := l.execute(ctx, "claim", &journal.Transition{
		Kind:   journal.KindClaimed,
		Ledger: ent,
	})
	if err != nil {
		return types.Zero(), err
	}
	return st.units, nil
}

// ──────────────────────────────────────────────────
// Custody
// ──────────────────────────────────────────────────

// Withdraw releases the custody of a collection or entitlement ledger to
// its admin and returns the amount released. The ledger kind is taken from
// the id prefix.
func (l *Ledger) Withdraw(ctx context.Context, ledgerID id.ID) (types.Amount, error) {
	st, err := l.execute(ctx, "withdraw", &journal.Transition{
		Kind:   journal.KindWithdrawn,
		Ledger: ledgerID,
	})
	if err != nil {
		return types.Zero(), err
	}
	return st.paid, nil
}
