// Package item implements the capped, uniquely numbered item collection:
// a timed presale gated by an allow-list, an open mint after it, an admin
// pause switch and withdrawal of custodied payment.
//
// Presale state is never stored. It is derived from the presale end time
// and the clock reading passed to each operation.
package item

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/types"
)

// TokenID numbers items densely from 1.
type TokenID uint64

func (t TokenID) String() string { return strconv.FormatUint(uint64(t), 10) }

// AllowList is the read-only view of an allow-list consulted during presale.
type AllowList interface {
	IsAdmitted(who types.Identity) bool
}

// AllowListFunc adapts a function to AllowList.
type AllowListFunc func(who types.Identity) bool

// IsAdmitted implements AllowList.
func (f AllowListFunc) IsAdmitted(who types.Identity) bool { return f(who) }

// PresaleState is the derived phase of the presale window.
type PresaleState string

const (
	PresaleNotStarted PresaleState = "not_started"
	PresaleActive     PresaleState = "active"
	PresaleEnded      PresaleState = "ended"
)

// Config configures a new collection. PresaleDuration must be a whole
// number of seconds since presale end times are kept at second resolution.
type Config struct {
	Name            string        `json:"name"`
	Symbol          string        `json:"symbol"`
	BaseURI         string        `json:"base_uri"`
	SupplyCap       uint64        `json:"supply_cap"`
	UnitPrice       types.Amount  `json:"unit_price"`
	PresaleDuration time.Duration `json:"presale_duration"`
}

// DefaultConfig returns the Crypto Devs collection defaults: twenty items at
// 0.01 ether each with a five minute presale.
func DefaultConfig() Config {
	return Config{
		Name:            "Crypto Devs",
		Symbol:          "CD",
		SupplyCap:       20,
		UnitPrice:       types.MustParseEther("0.01"),
		PresaleDuration: 5 * time.Minute,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.SupplyCap == 0 {
		errs = append(errs, errors.New("item: supply cap must be greater than zero"))
	}
	if c.PresaleDuration < time.Second {
		errs = append(errs, errors.New("item: presale duration must be at least one second"))
	} else if c.PresaleDuration%time.Second != 0 {
		errs = append(errs, fmt.Errorf("item: presale duration %s is not a whole number of seconds", c.PresaleDuration))
	}
	return errors.Join(errs...)
}

// Ledger is the state of a single item collection.
type Ledger struct {
	types.Entity
	ID              id.CollectionID `json:"id"`
	AllowListID     id.AllowListID  `json:"allow_list_id"`
	Admin           types.Identity  `json:"admin"`
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	BaseURI         string          `json:"base_uri"`
	SupplyCap       uint64          `json:"supply_cap"`
	UnitPrice       types.Amount    `json:"unit_price"`
	PresaleDuration time.Duration   `json:"presale_duration"`
	Minted          uint64          `json:"minted"`
	PresaleStarted  bool            `json:"presale_started"`
	PresaleEnd      int64           `json:"presale_end"`
	Paused          bool            `json:"paused"`
	Custody         types.Amount    `json:"custody"`

	owners   map[TokenID]types.Identity
	holdings map[types.Identity][]TokenID
}

// New creates an empty collection owned by admin that reads allowList
// during presale.
func New(ledgerID id.CollectionID, allowList id.AllowListID, admin types.Identity, cfg Config, now time.Time) *Ledger {
	return &Ledger{
		Entity:          types.NewEntity(now),
		ID:              ledgerID,
		AllowListID:     allowList,
		Admin:           admin,
		Name:            cfg.Name,
		Symbol:          cfg.Symbol,
		BaseURI:         cfg.BaseURI,
		SupplyCap:       cfg.SupplyCap,
		UnitPrice:       cfg.UnitPrice,
		PresaleDuration: cfg.PresaleDuration,
		owners:          make(map[TokenID]types.Identity),
		holdings:        make(map[types.Identity][]TokenID),
	}
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.owners = make(map[TokenID]types.Identity, len(l.owners))
	for k, v := range l.owners {
		c.owners[k] = v
	}
	c.holdings = make(map[types.Identity][]TokenID, len(l.holdings))
	for k, v := range l.holdings {
		c.holdings[k] = append([]TokenID(nil), v...)
	}
	return &c
}
