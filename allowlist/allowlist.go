// Package allowlist implements the capped admission ledger read by item
// collections during their presale window.
package allowlist

import (
	"errors"
	"time"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// Config configures a new allow-list ledger.
type Config struct {
	Quota uint64 `json:"quota"`
}

// DefaultConfig returns a ten-seat allow-list.
func DefaultConfig() Config {
	return Config{Quota: 10}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Quota == 0 {
		return errors.New("allowlist: quota must be greater than zero")
	}
	return nil
}

// Ledger is the state of a single allow-list.
type Ledger struct {
	types.Entity
	ID       id.AllowListID `json:"id"`
	Admin    types.Identity `json:"admin"`
	Quota    uint64         `json:"quota"`
	Admitted uint64         `json:"admitted"`

	members map[types.Identity]bool
}

// New creates an empty allow-list owned by admin.
func New(ledgerID id.AllowListID, admin types.Identity, cfg Config, now time.Time) *Ledger {
	return &Ledger{
		Entity:  types.NewEntity(now),
		ID:      ledgerID,
		Admin:   admin,
		Quota:   cfg.Quota,
		members: make(map[types.Identity]bool),
	}
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.members = make(map[types.Identity]bool, len(l.members))
	for k, v := range l.members {
		c.members[k] = v
	}
	return &c
}

// Admit adds caller to the allow-list.
func (l *Ledger) Admit(caller types.Identity) error {
	if l.members[caller] {
		return reason.AlreadyAdmitted
	}
	if l.Full() {
		return reason.QuotaReached
	}

	l.members[caller] = true
	l.Admitted++
	return nil
}

// IsAdmitted reports whether who has been admitted.
func (l *Ledger) IsAdmitted(who types.Identity) bool {
	return l.members[who]
}

// Full reports whether the quota has been reached. A full allow-list
// accepts no further admissions.
func (l *Ledger) Full() bool {
	return l.Admitted >= l.Quota
}
