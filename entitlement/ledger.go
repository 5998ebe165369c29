package entitlement

import (
	"fmt"

	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

// Mint sells amount whole tokens to caller and returns the base units
// credited. Payment must equal amount × UnitPrice.
func (l *Ledger) Mint(caller types.Identity, amount, payment types.Amount) (types.Amount, error) {
	required, err := amount.Mul(l.UnitPrice)
	if err != nil || !payment.Equal(required) {
		return types.Zero(), reason.WrongPayment
	}
	units, err := amount.Scale(l.Decimals)
	if err != nil {
		return types.Zero(), reason.SupplyCapExceeded
	}
	supply, err := l.capped(units)
	if err != nil {
		return types.Zero(), err
	}
	custody, err := l.Custody.Add(payment)
	if err != nil {
		return types.Zero(), fmt.Errorf("entitlement: custody: %w", err)
	}

	l.credit(caller, units, supply)
	l.Custody = custody
	return units, nil
}

// Claim credits RewardPerItem for every item caller holds that has not been
// claimed yet. Either every unclaimed item is claimed or none is.
func (l *Ledger) Claim(holdings Holdings, caller types.Identity) ([]item.TokenID, types.Amount, error) {
	owned := holdings.OwnedItemsOf(caller)
	if len(owned) == 0 {
		return nil, types.Zero(), reason.NoItemsOwned
	}

	var unclaimed []item.TokenID
	for _, tid := range owned {
		if !l.claimed[tid] {
			unclaimed = append(unclaimed, tid)
		}
	}
	if len(unclaimed) == 0 {
		return nil, types.Zero(), reason.AllItemsClaimed
	}

	reward, err := l.RewardPerItem.MulUint64(uint64(len(unclaimed)))
	if err != nil {
		return nil, types.Zero(), reason.SupplyCapExceeded
	}
	supply, err := l.capped(reward)
	if err != nil {
		return nil, types.Zero(), err
	}

	for _, tid := range unclaimed {
		l.claimed[tid] = true
	}
	l.credit(caller, reward, supply)
	return unclaimed, reward, nil
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

// BalanceOf returns owner's balance in base units.
func (l *Ledger) BalanceOf(owner types.Identity) types.Amount {
	return l.balances[owner]
}

// IsClaimed reports whether the reward for tid has been claimed.
func (l *Ledger) IsClaimed(tid item.TokenID) bool {
	return l.claimed[tid]
}

// capped returns TotalSupply + units, or SupplyCapExceeded.
func (l *Ledger) capped(units types.Amount) (types.Amount, error) {
	supply, err := l.TotalSupply.Add(units)
	if err != nil || supply.GreaterThan(l.SupplyCap) {
		return types.Zero(), reason.SupplyCapExceeded
	}
	return supply, nil
}

func (l *Ledger) credit(to types.Identity, units, supply types.Amount) {
	// balance <= supply, so the sum cannot overflow
	balance, _ := l.balances[to].Add(units)
	l.balances[to] = balance
	l.TotalSupply = supply
}
