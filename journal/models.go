// Package journal defines the append-only transition log that every ledger
// state is projected from.
//
// Each committed operation is one Transition. Replaying the log in Seq order
// through the engine reproduces the exact in-memory state.
package journal

import (
	"encoding/json"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/types"
)

// Kind names the operation a transition records.
type Kind string

const (
	KindAllowListCreated   Kind = "allowlist.created"
	KindAdmitted           Kind = "allowlist.admitted"
	KindCollectionCreated  Kind = "collection.created"
	KindPresaleStarted     Kind = "collection.presale_started"
	KindPresaleMinted      Kind = "collection.presale_minted"
	KindMinted             Kind = "collection.minted"
	KindPauseSet           Kind = "collection.pause_set"
	KindEntitlementCreated Kind = "entitlement.created"
	KindTokensMinted       Kind = "entitlement.minted"
	KindClaimed            Kind = "entitlement.claimed"
	KindWithdrawn          Kind = "withdrawn"
)

// Transition is a single committed state change.
//
// Value is the payment attached to the call. Amount carries the token amount
// for entitlement mints. Flag carries the pause value. Ref names the ledger
// a new collection or entitlement ledger reads from, and Config holds the
// creation parameters.
type Transition struct {
	ID     id.TransitionID `json:"id"`
	Seq    uint64          `json:"seq"`
	Kind   Kind            `json:"kind"`
	Ledger id.ID           `json:"ledger"`
	Ref    id.ID           `json:"ref,omitempty"`
	Caller types.Identity  `json:"caller"`
	Time   int64           `json:"time"`
	Value  types.Amount    `json:"value"`
	Amount types.Amount    `json:"amount"`
	Flag   bool            `json:"flag,omitempty"`
	Config json.RawMessage `json:"config,omitempty"`
}
