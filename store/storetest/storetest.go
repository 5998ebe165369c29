// Package storetest checks that a journal backend satisfies the contract
// the engine replays against.
//
// Backends call Run from their own tests with a Factory that hands out an
// empty database per subtest.
package storetest

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/xraph/mintledger"
	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/entitlement"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/journal"
	"github.com/xraph/mintledger/store"
	"github.com/xraph/mintledger/types"
)

// Factory prepares an empty database and returns a function that opens a
// new store handle on it. Every handle returned by the same opener sees the
// same journal, so closing one and opening another simulates a restart.
type Factory func(t *testing.T) (open func() store.Store)

var (
	admin = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	buyer = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

// Run exercises the backend built by factory.
func Run(t *testing.T, factory Factory) {
	t.Run("MigrateTwice", func(t *testing.T) { testMigrateTwice(t, factory) })
	t.Run("RoundTrip", func(t *testing.T) { testRoundTrip(t, factory) })
	t.Run("DuplicateSeq", func(t *testing.T) { testDuplicateSeq(t, factory) })
	t.Run("ListPages", func(t *testing.T) { testListPages(t, factory) })
	t.Run("EngineRestart", func(t *testing.T) { testEngineRestart(t, factory) })
}

func migrated(t *testing.T, factory Factory) store.Store {
	t.Helper()
	s := factory(t)()
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func testMigrateTwice(t *testing.T, factory Factory) {
	s := migrated(t, factory)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Ping(ctx))

	last, err := s.LastSeq(ctx)
	require.NoError(t, err)
	require.Zero(t, last)

	got, err := s.List(ctx, journal.ListOpts{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func testRoundTrip(t *testing.T, factory Factory) {
	s := migrated(t, factory)
	ctx := context.Background()

	large, err := types.ParseUnits("123456789012345678901234567890", 0)
	require.NoError(t, err)

	want := &journal.Transition{
		ID:     id.NewTransitionID(),
		Seq:    1,
		Kind:   journal.KindCollectionCreated,
		Ledger: id.NewCollectionID(),
		Ref:    id.NewAllowListID(),
		Caller: admin,
		Time:   1_700_000_000,
		Value:  types.MustParseEther("0.01"),
		Amount: large,
		Flag:   true,
		Config: json.RawMessage(`{"name":"Items","supply_cap":3,"unit_price":"10000000000000000"}`),
	}
	require.NoError(t, s.Append(ctx, want))

	got, err := s.List(ctx, journal.ListOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	tr := got[0]
	require.Equal(t, want.ID.String(), tr.ID.String())
	require.Equal(t, want.Seq, tr.Seq)
	require.Equal(t, want.Kind, tr.Kind)
	require.Equal(t, want.Ledger.String(), tr.Ledger.String())
	require.Equal(t, want.Ref.String(), tr.Ref.String())
	require.Equal(t, want.Caller, tr.Caller)
	require.Equal(t, want.Time, tr.Time)
	require.True(t, want.Value.Equal(tr.Value), "value %s", tr.Value)
	require.True(t, want.Amount.Equal(tr.Amount), "amount %s", tr.Amount)
	require.Equal(t, want.Flag, tr.Flag)
	require.JSONEq(t, string(want.Config), string(tr.Config))

	// A transition without a reference or config comes back without them.
	bare := &journal.Transition{
		ID:     id.NewTransitionID(),
		Seq:    2,
		Kind:   journal.KindAdmitted,
		Ledger: want.Ref,
		Caller: buyer,
		Time:   1_700_000_001,
	}
	require.NoError(t, s.Append(ctx, bare))

	got, err = s.List(ctx, journal.ListOpts{AfterSeq: 1})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.True(t, got[0].Ref.IsNil())
	require.Empty(t, got[0].Config)
	require.True(t, got[0].Value.IsZero())
	require.False(t, got[0].Flag)
}

func testDuplicateSeq(t *testing.T, factory Factory) {
	s := migrated(t, factory)
	ctx := context.Background()
	ledger := id.NewAllowListID()

	first := &journal.Transition{ID: id.NewTransitionID(), Seq: 1, Kind: journal.KindAdmitted, Ledger: ledger, Caller: admin}
	require.NoError(t, s.Append(ctx, first))

	again := &journal.Transition{ID: id.NewTransitionID(), Seq: 1, Kind: journal.KindAdmitted, Ledger: ledger, Caller: buyer}
	err := s.Append(ctx, again)
	require.ErrorIs(t, err, mintledger.ErrSequenceConflict)

	got, err := s.List(ctx, journal.ListOpts{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, admin, got[0].Caller)
}

func testListPages(t *testing.T, factory Factory) {
	s := migrated(t, factory)
	ctx := context.Background()
	a := id.NewAllowListID()
	b := id.NewAllowListID()

	for seq, ledger := range []id.ID{a, b, a, a, b} {
		require.NoError(t, s.Append(ctx, &journal.Transition{
			ID:     id.NewTransitionID(),
			Seq:    uint64(seq + 1),
			Kind:   journal.KindAdmitted,
			Ledger: ledger,
			Caller: buyer,
		}))
	}

	page, err := s.List(ctx, journal.ListOpts{AfterSeq: 1, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []uint64{2, 3}, seqs(page))

	onlyA, err := s.List(ctx, journal.ListOpts{Ledger: a.String()})
	require.NoError(t, err)
	require.Equal(t, []uint64{1, 3, 4}, seqs(onlyA))

	onlyB, err := s.List(ctx, journal.ListOpts{Ledger: b.String(), AfterSeq: 2})
	require.NoError(t, err)
	require.Equal(t, []uint64{5}, seqs(onlyB))

	last, err := s.LastSeq(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(5), last)
}

func testEngineRestart(t *testing.T, factory Factory) {
	open := factory(t)
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	clock := func() time.Time { return now }

	l := mintledger.New(open(), mintledger.WithClock(clock), mintledger.WithReplayBatchSize(2))
	require.NoError(t, l.Start(ctx))

	asAdmin := mintledger.WithCaller(ctx, admin)
	asBuyer := mintledger.WithCaller(ctx, buyer)
	price := item.DefaultConfig().UnitPrice

	list, err := l.CreateAllowList(asAdmin, allowlist.DefaultConfig())
	require.NoError(t, err)
	coll, err := l.CreateCollection(asAdmin, list, item.DefaultConfig())
	require.NoError(t, err)
	ent, err := l.CreateEntitlement(asAdmin, coll, entitlement.DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, l.Admit(asBuyer, list))
	require.NoError(t, l.StartPresale(asAdmin, coll))
	_, err = l.PresaleMint(asBuyer, coll, price)
	require.NoError(t, err)
	_, err = l.Claim(asBuyer, ent)
	require.NoError(t, err)
	_, err = l.MintTokens(asBuyer, ent, types.NewAmount(10), types.MustParseEther("0.01"))
	require.NoError(t, err)
	_, err = l.Withdraw(asAdmin, coll)
	require.NoError(t, err)
	require.NoError(t, l.SetPaused(asAdmin, coll, true))

	created, err := l.History(ctx, coll, 0, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.Equal(t, journal.KindCollectionCreated, created[0].Kind)
	require.Equal(t, list.String(), created[0].Ref.String())
	require.NotEmpty(t, created[0].Config)

	wantList, err := l.AllowList(ctx, list)
	require.NoError(t, err)
	wantColl, err := l.Collection(ctx, coll)
	require.NoError(t, err)
	wantEnt, err := l.Entitlement(ctx, ent)
	require.NoError(t, err)
	wantSeq := l.Seq()
	require.Equal(t, uint64(10), wantSeq)

	require.NoError(t, l.Stop())

	restarted := mintledger.New(open(), mintledger.WithClock(clock), mintledger.WithReplayBatchSize(2))
	require.NoError(t, restarted.Start(ctx))
	t.Cleanup(func() { _ = restarted.Stop() })

	require.Equal(t, wantSeq, restarted.Seq())

	gotList, err := restarted.AllowList(ctx, list)
	require.NoError(t, err)
	require.Equal(t, wantList, gotList)
	gotColl, err := restarted.Collection(ctx, coll)
	require.NoError(t, err)
	require.Equal(t, wantColl, gotColl)
	gotEnt, err := restarted.Entitlement(ctx, ent)
	require.NoError(t, err)
	require.Equal(t, wantEnt, gotEnt)

	balance, err := restarted.TokenBalanceOf(ctx, ent, buyer)
	require.NoError(t, err)
	require.True(t, balance.Equal(types.Ether(20)), "balance %s", balance.FormatEther())
	require.Equal(t, price.FormatEther(), restarted.PayoutBalance(ctx, admin).FormatEther())
}

func seqs(ts []*journal.Transition) []uint64 {
	out := make([]uint64, len(ts))
	for i, tr := range ts {
		out[i] = tr.Seq
	}
	return out
}
