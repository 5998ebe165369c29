package mintledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/entitlement"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// staged is the result of applying one transition to cloned state. Nothing
// in it is visible until commit.
type staged struct {
	allowList   *allowlist.Ledger
	collection  *item.Ledger
	entitlement *entitlement.Ledger

	withdrew bool
	payee    types.Identity
	paid     types.Amount
	payout   types.Amount

	tokenID item.TokenID
	units   types.Amount
	claimed []item.TokenID
}

// execute runs one operation as an atomic transition: stage against clones,
// journal, then swap the clones in. Rejections and store failures leave the
// live state untouched.
func (l *Ledger) execute(ctx context.Context, op string, t *journal.Transition) (*staged, error) {
	start := time.Now()

	caller, ok := CallerFrom(ctx)
	if !ok {
		return nil, ErrNoCaller
	}
	t.Caller = caller

	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return nil, ErrNotStarted
	}

	t.ID = id.NewTransitionID()
	t.Seq = l.seq + 1
	t.Time = l.now().Unix()

	st, err := l.stage(t)
	if err != nil {
		l.mu.Unlock()
		if IsRejection(err) {
			l.logger.Warn("operation rejected",
				"op", op,
				"ledger", t.Ledger.String(),
				"caller", caller.Hex(),
				"code", reason.CodeOf(err),
			)
			l.plugins.EmitRejected(ctx, op, t.Ledger, caller, err)
		}
		return nil, err
	}

	if err := l.store.Append(ctx, t); err != nil {
		l.mu.Unlock()
		l.logger.Error("journal append failed",
			"op", op,
			"seq", t.Seq,
			"error", err,
		)
		return nil, err
	}

	l.commit(t, st)
	l.mu.Unlock()

	l.logger.Debug("transition committed",
		"op", op,
		"seq", t.Seq,
		"kind", t.Kind,
		"ledger", t.Ledger.String(),
	)

	l.plugins.EmitCommitted(ctx, t, time.Since(start))
	l.emit(ctx, t, st)

	return st, nil
}

// stage applies t to clones of the ledgers it touches. It is shared by the
// live path and journal replay, so both produce identical state.
func (l *Ledger) stage(t *journal.Transition) (*staged, error) {
	now := time.Unix(t.Time, 0).UTC()
	st := &staged{}

	switch t.Kind {
	case journal.KindAllowListCreated:
		var cfg allowlist.Config
		if err := decodeConfig(t, &cfg, func() error { return cfg.Validate() }); err != nil {
			return nil, err
		}
		if err := l.ensureNew(t.Ledger, id.PrefixAllowList); err != nil {
			return nil, err
		}
		st.allowList = allowlist.New(t.Ledger, t.Caller, cfg, now)

	case journal.KindAdmitted:
		al, err := l.allowListOf(t.Ledger)
		if err != nil {
			return nil, err
		}
		c := al.Clone()
		if err := c.Admit(t.Caller); err != nil {
			return nil, err
		}
		c.Touch(now)
		st.allowList = c

	case journal.KindCollectionCreated:
		var cfg item.Config
		if err := decodeConfig(t, &cfg, func() error { return cfg.Validate() }); err != nil {
			return nil, err
		}
		if err := l.ensureNew(t.Ledger, id.PrefixCollection); err != nil {
			return nil, err
		}
		if _, err := l.allowListOf(t.Ref); err != nil {
			return nil, err
		}
		st.collection = item.New(t.Ledger, t.Ref, t.Caller, cfg, now)

	case journal.KindPresaleStarted, journal.KindPresaleMinted, journal.KindMinted, journal.KindPauseSet:
		coll, err := l.collectionOf(t.Ledger)
		if err != nil {
			return nil, err
		}
		c := coll.Clone()
		switch t.Kind {
		case journal.KindPresaleStarted:
			err = c.StartPresale(t.Caller, now)
		case journal.KindPresaleMinted:
			gate := allowListGate{l: l, id: c.AllowListID.String()}
			st.tokenID, err = c.PresaleMint(gate, t.Caller, t.Value, now)
		case journal.KindMinted:
			st.tokenID, err = c.Mint(t.Caller, t.Value, now)
		default:
			err = c.SetPaused(t.Caller, t.Flag)
		}
		if err != nil {
			return nil, err
		}
		c.Touch(now)
		st.collection = c

	case journal.KindEntitlementCreated:
		var cfg entitlement.Config
		if err := decodeConfig(t, &cfg, func() error { return cfg.Validate() }); err != nil {
			return nil, err
		}
		if err := l.ensureNew(t.Ledger, id.PrefixEntitlement); err != nil {
			return nil, err
		}
		if _, err := l.collectionOf(t.Ref); err != nil {
			return nil, err
		}
		st.entitlement = entitlement.New(t.Ledger, t.Ref, t.Caller, cfg, now)

	case journal.KindTokensMinted, journal.KindClaimed:
		ent, err := l.entitlementOf(t.Ledger)
		if err != nil {
			return nil, err
		}
		c := ent.Clone()
		if t.Kind == journal.KindTokensMinted {
			st.units, err = c.Mint(t.Caller, t.Amount, t.Value)
		} else {
			holdings := collectionHoldings{l: l, id: c.CollectionID.String()}
			st.claimed, st.units, err = c.Claim(holdings, t.Caller)
		}
		if err != nil {
			return nil, err
		}
		c.Touch(now)
		st.entitlement = c

	case journal.KindWithdrawn:
		if err := l.stageWithdraw(t, st, now); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: unknown transition kind %q", ErrCorruptJournal, t.Kind)
	}

	return st, nil
}

func (l *Ledger) stageWithdraw(t *journal.Transition, st *staged, now time.Time) error {
	var err error
	switch t.Ledger.Prefix() {
	case id.PrefixCollection:
		coll, lookupErr := l.collectionOf(t.Ledger)
		if lookupErr != nil {
			return lookupErr
		}
		c := coll.Clone()
		if st.paid, err = c.Withdraw(t.Caller); err != nil {
			return err
		}
		c.Touch(now)
		st.collection = c
		st.payee = c.Admin

	case id.PrefixEntitlement:
		ent, lookupErr := l.entitlementOf(t.Ledger)
		if lookupErr != nil {
			return lookupErr
		}
		c := ent.Clone()
		if st.paid, err = c.Withdraw(t.Caller); err != nil {
			return err
		}
		c.Touch(now)
		st.entitlement = c
		st.payee = c.Admin

	default:
		return fmt.Errorf("%w: %q holds no custody", ErrWrongKind, t.Ledger.String())
	}

	st.payout, err = l.payouts[st.payee].Add(st.paid)
	if err != nil {
		return fmt.Errorf("mintledger: payout: %w", err)
	}
	st.withdrew = true
	return nil
}

// commit swaps staged state in. Callers hold mu.
func (l *Ledger) commit(t *journal.Transition, st *staged) {
	if st.allowList != nil {
		l.allowLists[st.allowList.ID.String()] = st.allowList
	}
	if st.collection != nil {
		l.collections[st.collection.ID.String()] = st.collection
	}
	if st.entitlement != nil {
		l.entitlements[st.entitlement.ID.String()] = st.entitlement
	}
	if st.withdrew {
		l.payouts[st.payee] = st.payout
	}
	l.seq = t.Seq
}

// emit dispatches the typed plugin hooks for a committed transition.
func (l *Ledger) emit(ctx context.Context, t *journal.Transition, st *staged) {
	switch t.Kind {
	case journal.KindAllowListCreated, journal.KindCollectionCreated, journal.KindEntitlementCreated:
		l.plugins.EmitLedgerCreated(ctx, t.Ledger, t.Caller)
	case journal.KindAdmitted:
		l.plugins.EmitAdmitted(ctx, t.Ledger, t.Caller)
	case journal.KindPresaleStarted:
		l.plugins.EmitPresaleStarted(ctx, t.Ledger, time.Unix(st.collection.PresaleEnd, 0).UTC())
	case journal.KindPresaleMinted, journal.KindMinted:
		l.plugins.EmitItemMinted(ctx, t.Ledger, st.tokenID, t.Caller, t.Kind == journal.KindPresaleMinted)
	case journal.KindPauseSet:
		l.plugins.EmitPauseChanged(ctx, t.Ledger, t.Flag)
	case journal.KindTokensMinted:
		l.plugins.EmitTokensMinted(ctx, t.Ledger, t.Caller, st.units)
	case journal.KindClaimed:
		l.plugins.EmitClaimed(ctx, t.Ledger, t.Caller, st.claimed, st.units)
	case journal.KindWithdrawn:
		l.plugins.EmitWithdrawn(ctx, t.Ledger, st.payee, st.paid)
	}
}

// decodeConfig unmarshals the creation parameters of t and validates them.
func decodeConfig(t *journal.Transition, cfg any, validate func() error) error {
	if len(t.Config) == 0 {
		return fmt.Errorf("%w: %s without config", ErrCorruptJournal, t.Kind)
	}
	if err := json.Unmarshal(t.Config, cfg); err != nil {
		return fmt.Errorf("%w: %s config: %w", ErrCorruptJournal, t.Kind, err)
	}
	if err := validate(); err != nil {
		return ValidationError{Field: "config", Message: err.Error()}
	}
	return nil
}
