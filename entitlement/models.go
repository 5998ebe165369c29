// Package entitlement implements the fungible token ledger: a fixed supply
// cap, open paid minting and a one-time reward claim per item held in the
// linked collection.
package entitlement

import (
	"errors"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/types"
)

// Holdings is the read-only view of item ownership used to compute claims.
type Holdings interface {
	OwnedItemsOf(owner types.Identity) []item.TokenID
}

// HoldingsFunc adapts a function to Holdings.
type HoldingsFunc func(owner types.Identity) []item.TokenID

// OwnedItemsOf implements Holdings.
func (f HoldingsFunc) OwnedItemsOf(owner types.Identity) []item.TokenID { return f(owner) }

// Config configures a new entitlement ledger. UnitPrice is charged per
// whole token; RewardPerItem and SupplyCap are in base units.
type Config struct {
	Name          string       `json:"name"`
	Symbol        string       `json:"symbol"`
	Decimals      uint8        `json:"decimals"`
	UnitPrice     types.Amount `json:"unit_price"`
	RewardPerItem types.Amount `json:"reward_per_item"`
	SupplyCap     types.Amount `json:"supply_cap"`
}

// DefaultConfig returns the Crypto Dev Token defaults: 18 decimals,
// 0.001 ether per token, 10 tokens per item and a 10000 token cap.
func DefaultConfig() Config {
	return Config{
		Name:          "Crypto Dev Token",
		Symbol:        "CDT",
		Decimals:      types.EtherDecimals,
		UnitPrice:     types.MustParseEther("0.001"),
		RewardPerItem: types.Ether(10),
		SupplyCap:     types.Ether(10000),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Decimals > types.MaxDecimals {
		errs = append(errs, errors.New("entitlement: decimals out of range"))
	}
	if c.SupplyCap.IsZero() {
		errs = append(errs, errors.New("entitlement: supply cap must be greater than zero"))
	}
	return errors.Join(errs...)
}

// Ledger is the state of a single entitlement ledger.
type Ledger struct {
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

	balances map[types.Identity]types.Amount
	claimed  map[item.TokenID]bool
}

// New creates an empty entitlement ledger owned by admin whose claims are
// keyed off collection.
func New(ledgerID id.EntitlementID, collection id.CollectionID, admin types.Identity, cfg Config, now time.Time) *Ledger {
	return &Ledger{
		Entity:        types.NewEntity(now),
		ID:            ledgerID,
		CollectionID:  collection,
		Admin:         admin,
		Name:          cfg.Name,
		Symbol:        cfg.Symbol,
		Decimals:      cfg.Decimals,
		UnitPrice:     cfg.UnitPrice,
		RewardPerItem: cfg.RewardPerItem,
		SupplyCap:     cfg.SupplyCap,
		balances:      make(map[types.Identity]types.Amount),
		claimed:       make(map[item.TokenID]bool),
	}
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.balances = make(map[types.Identity]types.Amount, len(l.balances))
	for k, v := range l.balances {
		c.balances[k] = v
	}
	c.claimed = make(map[item.TokenID]bool, len(l.claimed))
	for k, v := range l.claimed {
		c.claimed[k] = v
	}
	return &c
}
