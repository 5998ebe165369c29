package mongo

import (
	"fmt"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/types"
)

// ==================== Transition models ====================

type transitionModel struct {
	grove.BaseModel `grove:"table:mintledger_transitions"`

	ID         string    `grove:"id,pk"       bson:"_id"`
	Seq        int64     `grove:"seq"         bson:"seq"`
	Kind       string    `grove:"kind"        bson:"kind"`
	LedgerID   string    `grove:"ledger_id"   bson:"ledger_id"`
	RefID      string    `grove:"ref_id"      bson:"ref_id,omitempty"`
	Caller     string    `grove:"caller"      bson:"caller"`
	OccurredAt int64     `grove:"occurred_at" bson:"occurred_at"`
	Value      string    `grove:"value"       bson:"value"`
	Amount     string    `grove:"amount"      bson:"amount"`
	Flag       bool      `grove:"flag"        bson:"flag"`
	Config     string    `grove:"config"      bson:"config,omitempty"`
	CreatedAt  time.Time `grove:"created_at"  bson:"created_at"`
}

func toTransitionModel(t *journal.Transition) *transitionModel {
	return &transitionModel{
		ID:         t.ID.String(),
		Seq:        int64(t.Seq), //nolint:gosec // seq never exceeds int64
		Kind:       string(t.Kind),
		LedgerID:   t.Ledger.String(),
		RefID:      t.Ref.String(),
		Caller:     t.Caller.Hex(),
		OccurredAt: t.Time,
		Value:      t.Value.String(),
		Amount:     t.Amount.String(),
		Flag:       t.Flag,
		Config:     string(t.Config),
		CreatedAt:  now(),
	}
}

func fromTransitionModel(m *transitionModel) (*journal.Transition, error) {
	tid, err := id.ParseTransitionID(m.ID)
	if err != nil {
		return nil, corrupt(m.Seq, err)
	}
	ledgerID, err := id.Parse(m.LedgerID)
	if err != nil {
		return nil, corrupt(m.Seq, err)
	}
	var ref id.ID
	if m.RefID != "" {
		if ref, err = id.Parse(m.RefID); err != nil {
			return nil, corrupt(m.Seq, err)
		}
	}
	caller, err := types.ParseIdentity(m.Caller)
	if err != nil {
		return nil, corrupt(m.Seq, err)
	}
	value, err := types.ParseUnits(m.Value, 0)
	if err != nil {
		return nil, corrupt(m.Seq, err)
	}
	amount, err := types.ParseUnits(m.Amount, 0)
	if err != nil {
		return nil, corrupt(m.Seq, err)
	}

	t := &journal.Transition{
		ID:     tid,
		Seq:    uint64(m.Seq), //nolint:gosec // seq is never negative
		Kind:   journal.Kind(m.Kind),
		Ledger: ledgerID,
		Ref:    ref,
		Caller: caller,
		Time:   m.OccurredAt,
		Value:  value,
		Amount: amount,
		Flag:   m.Flag,
	}
	if m.Config != "" {
		t.Config = []byte(m.Config)
	}
	return t, nil
}

func corrupt(seq int64, err error) error {
	return fmt.Errorf("mintledger/mongo: transition %d: %w: %w", seq, mintledger.ErrCorruptJournal, err)
}
