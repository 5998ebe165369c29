package mintledger

import (
	"context"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/types"
)

// AllowListInfo is a point-in-time snapshot of an allow-list.
type AllowListInfo struct {
	types.Entity
	ID       id.AllowListID `json:"id"`
	Admin    types.Identity `json:"admin"`
	Quota    uint64         `json:"quota"`
	Admitted uint64         `json:"admitted"`
	Full     bool           `json:"full"`
}

// CollectionInfo is a point-in-time snapshot of an item collection.
type CollectionInfo struct {
	types.Entity
	ID              id.CollectionID   `json:"id"`
	AllowListID     id.AllowListID    `json:"allow_list_id"`
	Admin           types.Identity    `json:"admin"`
	Name            string            `json:"name"`
	Symbol          string            `json:"symbol"`
	BaseURI         string            `json:"base_uri"`
	SupplyCap       uint64            `json:"supply_cap"`
	Minted          uint64            `json:"minted"`
	UnitPrice       types.Amount      `json:"unit_price"`
	PresaleDuration time.Duration     `json:"presale_duration"`
	PresaleState    item.PresaleState `json:"presale_state"`
	PresaleEnd      time.Time         `json:"presale_end,omitzero"`
	Paused          bool              `json:"paused"`
	Custody         types.Amount      `json:"custody"`
}

// EntitlementInfo is a point-in-time snapshot of an entitlement ledger.
type EntitlementInfo struct {
	types.Entity
	ID            id.EntitlementID `json:"id"`
	CollectionID  id.CollectionID  `json:"collection_id"`
	Admin         types.Identity   `json:"admin"`
	Name          string           `json:"name"`
	Symbol        string           `json:"symbol"`
	Decimals      uint8            `json:"decimals"`
	UnitPrice     types.Amount     `json:"unit_price"`
	RewardPerItem types.Amount     `json:"reward_per_item"`
	SupplyCap     types.Amount     `json:"supply_cap"`
	TotalSupply   types.Amount     `json:"total_supply"`
	Custody       types.Amount     `json:"custody"`
}

// ──────────────────────────────────────────────────
// Allow-list views
// ──────────────────────────────────────────────────

// IsAdmitted reports whether who is on list.
func (l *Ledger) IsAdmitted(_ context.Context, list id.AllowListID, who types.Identity) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	al, err := l.allowListOf(list)
	if err != nil {
		return false, err
	}
	return al.IsAdmitted(who), nil
}

// AllowList returns a snapshot of list.
func (l *Ledger) AllowList(_ context.Context, list id.AllowListID) (*AllowListInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	al, err := l.allowListOf(list)
	if err != nil {
		return nil, err
	}
	return &AllowListInfo{
		Entity:   al.Entity,
		ID:       al.ID,
		Admin:    al.Admin,
		Quota:    al.Quota,
		Admitted: al.Admitted,
		Full:     al.Full(),
	}, nil
}

// ──────────────────────────────────────────────────
// Collection views
// ──────────────────────────────────────────────────

// Collection returns a snapshot of coll. The presale state is derived from
// the engine clock.
func (l *Ledger) Collection(_ context.Context, coll id.CollectionID) (*CollectionInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return nil, err
	}
	info := &CollectionInfo{
		Entity:          c.Entity,
		ID:              c.ID,
		AllowListID:     c.AllowListID,
		Admin:           c.Admin,
		Name:            c.Name,
		Symbol:          c.Symbol,
		BaseURI:         c.BaseURI,
		SupplyCap:       c.SupplyCap,
		Minted:          c.Minted,
		UnitPrice:       c.UnitPrice,
		PresaleDuration: c.PresaleDuration,
		PresaleState:    c.PresaleState(l.now()),
		Paused:          c.Paused,
		Custody:         c.Custody,
	}
	if c.PresaleStarted {
		info.PresaleEnd = time.Unix(c.PresaleEnd, 0).UTC()
	}
	return info, nil
}

// TokenDescriptor returns the metadata locator of item tid in coll.
func (l *Ledger) TokenDescriptor(_ context.Context, coll id.CollectionID, tid item.TokenID) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return "", err
	}
	return c.TokenDescriptor(tid)
}

// OwnerOf returns the identity item tid of coll was minted to.
func (l *Ledger) OwnerOf(_ context.Context, coll id.CollectionID, tid item.TokenID) (types.Identity, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return types.NoIdentity, err
	}
	return c.OwnerOf(tid)
}

// BalanceOf returns how many items of coll owner holds.
func (l *Ledger) BalanceOf(_ context.Context, coll id.CollectionID, owner types.Identity) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return 0, err
	}
	return c.BalanceOf(owner), nil
}

// TokenOfOwnerByIndex returns the index-th item of coll held by owner.
func (l *Ledger) TokenOfOwnerByIndex(_ context.Context, coll id.CollectionID, owner types.Identity, index uint64) (item.TokenID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return 0, err
	}
	return c.TokenOfOwnerByIndex(owner, index)
}

// OwnedItems returns the ids of coll held by owner, ascending.
func (l *Ledger) OwnedItems(_ context.Context, coll id.CollectionID, owner types.Identity) ([]item.TokenID, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	c, err := l.collectionOf(coll)
	if err != nil {
		return nil, err
	}
	return c.OwnedItems(owner), nil
}

// ──────────────────────────────────────────────────
// Entitlement views
// ──────────────────────────────────────────────────

// Entitlement returns a snapshot of ent.
func (l *Ledger) Entitlement(_ context.Context, ent id.EntitlementID) (*EntitlementInfo, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, err := l.entitlementOf(ent)
	if err != nil {
		return nil, err
	}
	return &EntitlementInfo{
		Entity:        e.Entity,
		ID:            e.ID,
		CollectionID:  e.CollectionID,
		Admin:         e.Admin,
		Name:          e.Name,
		Symbol:        e.Symbol,
		Decimals:      e.Decimals,
		UnitPrice:     e.UnitPrice,
		RewardPerItem: e.RewardPerItem,
		SupplyCap:     e.SupplyCap,
		TotalSupply:   e.TotalSupply,
		Custody:       e.Custody,
	}, nil
}

// TokenBalanceOf returns owner's balance in ent, in base units.
func (l *Ledger) TokenBalanceOf(_ context.Context, ent id.EntitlementID, owner types.Identity) (types.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, err := l.entitlementOf(ent)
	if err != nil {
		return types.Zero(), err
	}
	return e.BalanceOf(owner), nil
}

// IsClaimed reports whether the reward for item tid has been claimed in ent.
func (l *Ledger) IsClaimed(_ context.Context, ent id.EntitlementID, tid item.TokenID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	e, err := l.entitlementOf(ent)
	if err != nil {
		return false, err
	}
	return e.IsClaimed(tid), nil
}

// ──────────────────────────────────────────────────
// Custody views
// ──────────────────────────────────────────────────

// Custody returns the payment held by a collection or entitlement ledger.
func (l *Ledger) Custody(_ context.Context, ledgerID id.ID) (types.Amount, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	switch ledgerID.Prefix() {
	case id.PrefixCollection:
		c, err := l.collectionOf(ledgerID)
		if err != nil {
			return types.Zero(), err
		}
		return c.Custody, nil
	case id.PrefixEntitlement:
		e, err := l.entitlementOf(ledgerID)
		if err != nil {
			return types.Zero(), err
		}
		return e.Custody, nil
	default:
		return types.Zero(), expectKind(ledgerID, id.PrefixCollection)
	}
}

// PayoutBalance returns the total who has received through withdrawals.
func (l *Ledger) PayoutBalance(_ context.Context, who types.Identity) types.Amount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.payouts[who]
}

// Seq returns the sequence number of the last committed transition.
func (l *Ledger) Seq() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.seq
}

// History returns the journaled transitions of ledgerID with a sequence
// number above afterSeq, in commit order. A limit of zero returns all.
func (l *Ledger) History(ctx context.Context, ledgerID id.ID, afterSeq uint64, limit int) ([]*journal.Transition, error) {
	if ledgerID.IsNil() {
		return nil, ValidationError{Field: "ledger", Message: "missing id"}
	}
	return l.store.List(ctx, journal.ListOpts{
		AfterSeq: afterSeq,
		Limit:    limit,
		Ledger:   ledgerID.String(),
	})
}
