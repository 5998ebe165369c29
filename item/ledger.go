package item

import (
	"fmt"
	"time"

	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// PresaleState derives the presale phase at now.
func (l *Ledger) PresaleState(now time.Time) PresaleState {
	switch {
	case !l.PresaleStarted:
		return PresaleNotStarted
	case now.Unix() < l.PresaleEnd:
		return PresaleActive
	default:
		return PresaleEnded
	}
}

// StartPresale opens the presale window at now. Admin only, once.
func (l *Ledger) StartPresale(caller types.Identity, now time.Time) error {
	if caller != l.Admin {
		return reason.NotAuthorized
	}
	if l.PresaleStarted {
		return reason.AlreadyStarted
	}

	l.PresaleStarted = true
	l.PresaleEnd = now.Unix() + int64(l.PresaleDuration/time.Second)
	return nil
}

// PresaleMint mints the next item to an allow-listed caller while the
// presale window is open.
func (l *Ledger) PresaleMint(gate AllowList, caller types.Identity, payment types.Amount, now time.Time) (TokenID, error) {
	if l.Paused {
		return 0, reason.Paused
	}
	if l.PresaleState(now) != PresaleActive {
		return 0, reason.PresaleNotActive
	}
	if !gate.IsAdmitted(caller) {
		return 0, reason.NotAllowListed
	}
	return l.mint(caller, payment)
}

// Mint mints the next item to caller once the presale has ended.
func (l *Ledger) Mint(caller types.Identity, payment types.Amount, now time.Time) (TokenID, error) {
	if l.Paused {
		return 0, reason.Paused
	}
	switch l.PresaleState(now) {
	case PresaleNotStarted:
		return 0, reason.PresaleNotConcluded
	case PresaleActive:
		return 0, reason.PresaleStillActive
	}
	return l.mint(caller, payment)
}

func (l *Ledger) mint(caller types.Identity, payment types.Amount) (TokenID, error) {
	if l.Minted >= l.SupplyCap {
		return 0, reason.SupplyExhausted
	}
	if !payment.Equal(l.UnitPrice) {
		return 0, reason.WrongPayment
	}
	custody, err := l.Custody.Add(payment)
	if err != nil {
		return 0, fmt.Errorf("item: custody: %w", err)
	}

	l.Minted++
	tid := TokenID(l.Minted)
	l.owners[tid] = caller
	l.holdings[caller] = append(l.holdings[caller], tid)
	l.Custody = custody
	return tid, nil
}

// SetPaused toggles the pause switch. Admin only.
func (l *Ledger) SetPaused(caller types.Identity, paused bool) error {
	if caller != l.Admin {
		return reason.NotAuthorized
	}
	l.Paused = paused
	return nil
}

// Withdraw releases the whole custody to the admin and returns the amount
// released.
func (l *Ledger) Withdraw(caller types.Identity) (types.Amount, error) {
	if caller != l.Admin {
		return types.Zero(), reason.NotAuthorized
	}
	amount := l.Custody
	l.Custody = types.Zero()
	return amount, nil
}

// TokenDescriptor returns BaseURI followed by the decimal id.
func (l *Ledger) TokenDescriptor(tid TokenID) (string, error) {
	if !l.exists(tid) {
		return "", reason.UnknownItem
	}
	return l.BaseURI + tid.String(), nil
}

// OwnerOf returns the identity an item was minted to.
func (l *Ledger) OwnerOf(tid TokenID) (types.Identity, error) {
	if !l.exists(tid) {
		return types.NoIdentity, reason.UnknownItem
	}
	return l.owners[tid], nil
}

// BalanceOf returns how many items owner holds.
func (l *Ledger) BalanceOf(owner types.Identity) uint64 {
	return uint64(len(l.holdings[owner]))
}

// TokenOfOwnerByIndex returns the index-th item held by owner, ascending.
func (l *Ledger) TokenOfOwnerByIndex(owner types.Identity, index uint64) (TokenID, error) {
	held := l.holdings[owner]
	if index >= uint64(len(held)) {
		return 0, reason.UnknownItem
	}
	return held[index], nil
}

// OwnedItems returns the ids held by owner in ascending order.
func (l *Ledger) OwnedItems(owner types.Identity) []TokenID {
	held := l.holdings[owner]
	if len(held) == 0 {
		return nil
	}
	return append([]TokenID(nil), held...)
}

func (l *Ledger) exists(tid TokenID) bool {
	return tid >= 1 && uint64(tid) <= l.Minted
}
