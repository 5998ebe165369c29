package mintledger

import (
	"fmt"

	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/entitlement"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/types"
)

// Lookups below expect the caller to hold mu.

func (l *Ledger) allowListOf(ledgerID id.ID) (*allowlist.Ledger, error) {
	if err := expectKind(ledgerID, id.PrefixAllowList); err != nil {
		return nil, err
	}
	al, ok := l.allowLists[ledgerID.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, ledgerID)
	}
	return al, nil
}

func (l *Ledger) collectionOf(ledgerID id.ID) (*item.Ledger, error) {
	if err := expectKind(ledgerID, id.PrefixCollection); err != nil {
		return nil, err
	}
	c, ok := l.collections[ledgerID.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, ledgerID)
	}
	return c, nil
}

func (l *Ledger) entitlementOf(ledgerID id.ID) (*entitlement.Ledger, error) {
	if err := expectKind(ledgerID, id.PrefixEntitlement); err != nil {
		return nil, err
	}
	e, ok := l.entitlements[ledgerID.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLedgerNotFound, ledgerID)
	}
	return e, nil
}

func (l *Ledger) ensureNew(ledgerID id.ID, kind id.Prefix) error {
	if err := expectKind(ledgerID, kind); err != nil {
		return err
	}
	key := ledgerID.String()
	_, a := l.allowLists[key]
	_, c := l.collections[key]
	_, e := l.entitlements[key]
	if a || c || e {
		return fmt.Errorf("%w: ledger %s already exists", ErrCorruptJournal, key)
	}
	return nil
}

func expectKind(ledgerID id.ID, kind id.Prefix) error {
	if ledgerID.IsNil() {
		return ValidationError{Field: "ledger", Message: "missing id"}
	}
	if ledgerID.Prefix() != kind {
		return fmt.Errorf("%w: %s is not a %q ledger", ErrWrongKind, ledgerID, kind)
	}
	return nil
}

// allowListGate reads the live allow-list by id at call time.
type allowListGate struct {
	l  *Ledger
	id string
}

func (g allowListGate) IsAdmitted(who types.Identity) bool {
	al, ok := g.l.allowLists[g.id]
	return ok && al.IsAdmitted(who)
}

// collectionHoldings reads the live collection by id at call time.
type collectionHoldings struct {
	l  *Ledger
	id string
}

func (h collectionHoldings) OwnedItemsOf(owner types.Identity) []item.TokenID {
	c, ok := h.l.collections[h.id]
	if !ok {
		return nil
	}
	return c.OwnedItems(owner)
}
