package mintledger_test

import (
	"context"
	"errors"
	"math/big"
	"sync"
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
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/store"
	"github.com/xraph/mintledger/store/memory"
	"github.com/xraph/mintledger/types"
)

var (
	owner = common.BigToAddress(big.NewInt(0xa1))
	alice = common.BigToAddress(big.NewInt(0xb2))
	bob   = common.BigToAddress(big.NewInt(0xc3))
	carol = common.BigToAddress(big.NewInt(0xd4))
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	ctx   context.Context
	store *memory.Store
	clock *manualClock
	l     *mintledger.Ledger

	list id.AllowListID
	coll id.CollectionID
	ent  id.EntitlementID
}

// newFixture starts an engine and creates one allow-list, one collection
// linked to it and one entitlement linked to the collection, all owned by
// owner.
func newFixture(t *testing.T, quota uint64, itemCfg item.Config, entCfg entitlement.Config, opts ...mintledger.Option) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		store: memory.New(),
		clock: &manualClock{now: time.Unix(1_700_000_000, 0)},
	}
	opts = append([]mintledger.Option{mintledger.WithClock(f.clock.Now)}, opts...)
	f.l = mintledger.New(f.store, opts...)
	require.NoError(t, f.l.Start(f.ctx))

	var err error
	f.list, err = f.l.CreateAllowList(f.as(owner), allowlist.Config{Quota: quota})
	require.NoError(t, err)
	f.coll, err = f.l.CreateCollection(f.as(owner), f.list, itemCfg)
	require.NoError(t, err)
	f.ent, err = f.l.CreateEntitlement(f.as(owner), f.coll, entCfg)
	require.NoError(t, err)

	return f
}

func defaultFixture(t *testing.T, opts ...mintledger.Option) *fixture {
	t.Helper()
	return newFixture(t, 10, item.DefaultConfig(), entitlement.DefaultConfig(), opts...)
}

func (f *fixture) as(who types.Identity) context.Context {
	return mintledger.WithCaller(f.ctx, who)
}

func price() types.Amount { return item.DefaultConfig().UnitPrice }

// presale admits buyers and opens the presale window.
func (f *fixture) presale(t *testing.T, buyers ...types.Identity) {
	t.Helper()
	for _, b := range buyers {
		require.NoError(t, f.l.Admit(f.as(b), f.list))
	}
	require.NoError(t, f.l.StartPresale(f.as(owner), f.coll))
}

func TestAllowListQuota(t *testing.T) {
	f := newFixture(t, 3, item.DefaultConfig(), entitlement.DefaultConfig())

	require.NoError(t, f.l.Admit(f.as(alice), f.list))
	require.NoError(t, f.l.Admit(f.as(bob), f.list))

	info, err := f.l.AllowList(f.ctx, f.list)
	require.NoError(t, err)
	require.False(t, info.Full)

	err = f.l.Admit(f.as(alice), f.list)
	require.ErrorIs(t, err, reason.AlreadyAdmitted)

	require.NoError(t, f.l.Admit(f.as(carol), f.list))

	err = f.l.Admit(f.as(owner), f.list)
	require.ErrorIs(t, err, reason.QuotaReached)

	info, err = f.l.AllowList(f.ctx, f.list)
	require.NoError(t, err)
	require.Equal(t, uint64(3), info.Admitted)
	require.Equal(t, uint64(3), info.Quota)
	require.True(t, info.Full)

	ok, err := f.l.IsAdmitted(f.ctx, f.list, carol)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = f.l.IsAdmitted(f.ctx, f.list, owner)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSupplyIsCapped(t *testing.T) {
	cfg := item.DefaultConfig()
	cfg.SupplyCap = 3
	f := newFixture(t, 10, cfg, entitlement.DefaultConfig())
	f.presale(t, alice)

	tid, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(1), tid)

	f.clock.Advance(cfg.PresaleDuration + time.Second)

	tid, err = f.l.Mint(f.as(bob), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(2), tid)
	tid, err = f.l.Mint(f.as(carol), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(3), tid)

	_, err = f.l.Mint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.SupplyExhausted)

	info, err := f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	require.Equal(t, uint64(3), info.Minted)

	custody, err := price().MulUint64(3)
	require.NoError(t, err)
	require.True(t, info.Custody.Equal(custody))

	who, err := f.l.OwnerOf(f.ctx, f.coll, 3)
	require.NoError(t, err)
	require.Equal(t, carol, who)

	_, err = f.l.OwnerOf(f.ctx, f.coll, 4)
	require.ErrorIs(t, err, reason.UnknownItem)
}

func TestPresaleWindow(t *testing.T) {
	f := defaultFixture(t)
	window := item.DefaultConfig().PresaleDuration

	require.NoError(t, f.l.Admit(f.as(alice), f.list))

	_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.ErrorIs(t, err, reason.PresaleNotActive)
	_, err = f.l.Mint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.PresaleNotConcluded)

	err = f.l.StartPresale(f.as(alice), f.coll)
	require.ErrorIs(t, err, reason.NotAuthorized)
	require.NoError(t, f.l.StartPresale(f.as(owner), f.coll))
	err = f.l.StartPresale(f.as(owner), f.coll)
	require.ErrorIs(t, err, reason.AlreadyStarted)

	info, err := f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	require.Equal(t, item.PresaleActive, info.PresaleState)
	require.Equal(t, f.clock.Now().Add(window).Unix(), info.PresaleEnd.Unix())

	_, err = f.l.PresaleMint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.NotAllowListed)
	_, err = f.l.Mint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.PresaleStillActive)

	f.clock.Advance(window - 5*time.Second)
	_, err = f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)

	f.clock.Advance(10 * time.Second)
	_, err = f.l.PresaleMint(f.as(alice), f.coll, price())
	require.ErrorIs(t, err, reason.PresaleNotActive)

	tid, err := f.l.Mint(f.as(bob), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(2), tid)

	info, err = f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	require.Equal(t, item.PresaleEnded, info.PresaleState)
}

func TestExactPayment(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice)

	for _, payment := range []types.Amount{
		types.Zero(),
		types.MustParseEther("0.009"),
		types.MustParseEther("0.02"),
	} {
		_, err := f.l.PresaleMint(f.as(alice), f.coll, payment)
		require.ErrorIs(t, err, reason.WrongPayment, payment.FormatEther())
	}

	info, err := f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	require.Equal(t, uint64(0), info.Minted)
	require.True(t, info.Custody.IsZero())

	// 10 tokens cost exactly 0.01 ether.
	_, err = f.l.MintTokens(f.as(bob), f.ent, types.NewAmount(10), types.MustParseEther("0.011"))
	require.ErrorIs(t, err, reason.WrongPayment)

	units, err := f.l.MintTokens(f.as(bob), f.ent, types.NewAmount(10), types.MustParseEther("0.01"))
	require.NoError(t, err)
	require.True(t, units.Equal(types.Ether(10)))

	balance, err := f.l.TokenBalanceOf(f.ctx, f.ent, bob)
	require.NoError(t, err)
	require.True(t, balance.Equal(types.Ether(10)))
}

func TestClaimOncePerItem(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice, bob)

	for range 2 {
		_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
		require.NoError(t, err)
	}

	_, err := f.l.Claim(f.as(bob), f.ent)
	require.ErrorIs(t, err, reason.NoItemsOwned)

	reward, err := f.l.Claim(f.as(alice), f.ent)
	require.NoError(t, err)
	require.True(t, reward.Equal(types.Ether(20)))

	_, err = f.l.Claim(f.as(alice), f.ent)
	require.ErrorIs(t, err, reason.AllItemsClaimed)

	claimed, err := f.l.IsClaimed(f.ctx, f.ent, 2)
	require.NoError(t, err)
	require.True(t, claimed)

	// A newly minted item is claimable on its own.
	_, err = f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	reward, err = f.l.Claim(f.as(alice), f.ent)
	require.NoError(t, err)
	require.True(t, reward.Equal(types.Ether(10)))

	balance, err := f.l.TokenBalanceOf(f.ctx, f.ent, alice)
	require.NoError(t, err)
	require.True(t, balance.Equal(types.Ether(30)))

	info, err := f.l.Entitlement(f.ctx, f.ent)
	require.NoError(t, err)
	require.True(t, info.TotalSupply.Equal(types.Ether(30)))
	require.True(t, info.Custody.IsZero())
}

func TestPauseBlocksMinting(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice)

	err := f.l.SetPaused(f.as(alice), f.coll, true)
	require.ErrorIs(t, err, reason.NotAuthorized)
	require.NoError(t, f.l.SetPaused(f.as(owner), f.coll, true))

	_, err = f.l.PresaleMint(f.as(alice), f.coll, price())
	require.ErrorIs(t, err, reason.Paused)

	f.clock.Advance(item.DefaultConfig().PresaleDuration + time.Second)
	_, err = f.l.Mint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.Paused)

	// Pausing never gates admin or view operations.
	_, err = f.l.Withdraw(f.as(owner), f.coll)
	require.NoError(t, err)
	_, err = f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)

	require.NoError(t, f.l.SetPaused(f.as(owner), f.coll, false))
	tid, err := f.l.Mint(f.as(bob), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(1), tid)
}

func TestWithdrawReleasesCustody(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice)
	_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.MintTokens(f.as(bob), f.ent, types.NewAmount(5), types.MustParseEther("0.005"))
	require.NoError(t, err)

	_, err = f.l.Withdraw(f.as(alice), f.coll)
	require.ErrorIs(t, err, reason.NotAuthorized)

	custody, err := f.l.Custody(f.ctx, f.coll)
	require.NoError(t, err)
	require.True(t, custody.Equal(price()))

	paid, err := f.l.Withdraw(f.as(owner), f.coll)
	require.NoError(t, err)
	require.True(t, paid.Equal(price()))

	custody, err = f.l.Custody(f.ctx, f.coll)
	require.NoError(t, err)
	require.True(t, custody.IsZero())

	paid, err = f.l.Withdraw(f.as(owner), f.ent)
	require.NoError(t, err)
	require.Equal(t, "0.005", paid.FormatEther())

	require.Equal(t, "0.015", f.l.PayoutBalance(f.ctx, owner).FormatEther())

	// An empty custody withdraws nothing.
	paid, err = f.l.Withdraw(f.as(owner), f.coll)
	require.NoError(t, err)
	require.True(t, paid.IsZero())

	_, err = f.l.Withdraw(f.as(owner), f.list)
	require.ErrorIs(t, err, mintledger.ErrWrongKind)
}

func TestEntitlementSupplyCap(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice)
	for range 3 {
		_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
		require.NoError(t, err)
	}

	reward, err := f.l.Claim(f.as(alice), f.ent)
	require.NoError(t, err)
	require.True(t, reward.Equal(types.Ether(30)))

	payment := types.MustParseEther("9.97")
	units, err := f.l.MintTokens(f.as(bob), f.ent, types.NewAmount(9970), payment)
	require.NoError(t, err)
	require.True(t, units.Equal(types.Ether(9970)))

	info, err := f.l.Entitlement(f.ctx, f.ent)
	require.NoError(t, err)
	require.True(t, info.TotalSupply.Equal(types.Ether(10000)))

	_, err = f.l.MintTokens(f.as(carol), f.ent, types.NewAmount(1), types.MustParseEther("0.001"))
	require.ErrorIs(t, err, reason.SupplyCapExceeded)

	// Claims are capped as well.
	_, err = f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.Claim(f.as(alice), f.ent)
	require.ErrorIs(t, err, reason.SupplyCapExceeded)

	claimed, err := f.l.IsClaimed(f.ctx, f.ent, 4)
	require.NoError(t, err)
	require.False(t, claimed)
}

func TestOperationsRequireCallerAndStart(t *testing.T) {
	l := mintledger.New(memory.New())
	ctx := context.Background()

	_, err := l.CreateAllowList(mintledger.WithCaller(ctx, owner), allowlist.DefaultConfig())
	require.ErrorIs(t, err, mintledger.ErrNotStarted)

	require.NoError(t, l.Start(ctx))

	_, err = l.CreateAllowList(ctx, allowlist.DefaultConfig())
	require.ErrorIs(t, err, mintledger.ErrNoCaller)
	_, err = l.CreateAllowList(mintledger.WithCaller(ctx, types.NoIdentity), allowlist.DefaultConfig())
	require.ErrorIs(t, err, mintledger.ErrNoCaller)

	_, err = l.CreateAllowList(mintledger.WithCaller(ctx, owner), allowlist.Config{})
	require.ErrorIs(t, err, mintledger.ErrInvalidInput)
	var verr mintledger.ValidationError
	require.True(t, errors.As(err, &verr))

	require.NoError(t, l.Stop())
	err = l.Admit(mintledger.WithCaller(ctx, alice), id.NewAllowListID())
	require.ErrorIs(t, err, mintledger.ErrNotStarted)
}

func TestUnknownAndMismatchedLedgers(t *testing.T) {
	f := defaultFixture(t)

	err := f.l.Admit(f.as(alice), id.NewAllowListID())
	require.ErrorIs(t, err, mintledger.ErrLedgerNotFound)
	require.True(t, mintledger.IsNotFound(err))

	err = f.l.Admit(f.as(alice), f.coll)
	require.ErrorIs(t, err, mintledger.ErrWrongKind)

	_, err = f.l.CreateCollection(f.as(owner), id.NewAllowListID(), item.DefaultConfig())
	require.ErrorIs(t, err, mintledger.ErrLedgerNotFound)

	_, err = f.l.Collection(f.ctx, id.NewCollectionID())
	require.ErrorIs(t, err, mintledger.ErrLedgerNotFound)
}

func TestRejectionsAreNotJournaled(t *testing.T) {
	f := defaultFixture(t)
	seq := f.l.Seq()

	_, err := f.l.Mint(f.as(alice), f.coll, price())
	require.Error(t, err)
	require.True(t, mintledger.IsRejection(err))
	require.Equal(t, seq, f.l.Seq())

	last, err := f.store.LastSeq(f.ctx)
	require.NoError(t, err)
	require.Equal(t, seq, last)
}

// failingStore rejects every append after the first n.
type failingStore struct {
	store.Store
	n int
}

var errDiskFull = errors.New("disk full")

func (s *failingStore) Append(ctx context.Context, t *journal.Transition) error {
	if s.n == 0 {
		return errDiskFull
	}
	s.n--
	return s.Store.Append(ctx, t)
}

func TestStoreFailureLeavesStateUntouched(t *testing.T) {
	clock := &manualClock{now: time.Unix(1_700_000_000, 0)}
	s := &failingStore{Store: memory.New(), n: 4}
	l := mintledger.New(s, mintledger.WithClock(clock.Now))
	ctx := context.Background()
	require.NoError(t, l.Start(ctx))

	asOwner := mintledger.WithCaller(ctx, owner)
	list, err := l.CreateAllowList(asOwner, allowlist.DefaultConfig())
	require.NoError(t, err)
	coll, err := l.CreateCollection(asOwner, list, item.DefaultConfig())
	require.NoError(t, err)
	require.NoError(t, l.Admit(mintledger.WithCaller(ctx, alice), list))
	require.NoError(t, l.StartPresale(asOwner, coll))

	_, err = l.PresaleMint(mintledger.WithCaller(ctx, alice), coll, price())
	require.ErrorIs(t, err, errDiskFull)
	require.False(t, mintledger.IsRejection(err))

	info, err := l.Collection(ctx, coll)
	require.NoError(t, err)
	require.Equal(t, uint64(0), info.Minted)
	require.True(t, info.Custody.IsZero())
	require.Equal(t, uint64(4), l.Seq())

	owned, err := l.OwnedItems(ctx, coll, alice)
	require.NoError(t, err)
	require.Empty(t, owned)
}

func TestRestartReplaysJournal(t *testing.T) {
	f := defaultFixture(t, mintledger.WithReplayBatchSize(2))
	f.presale(t, alice, bob)
	_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.PresaleMint(f.as(bob), f.coll, price())
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	_, err = f.l.Mint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.Claim(f.as(alice), f.ent)
	require.NoError(t, err)
	_, err = f.l.MintTokens(f.as(carol), f.ent, types.NewAmount(3), types.MustParseEther("0.003"))
	require.NoError(t, err)
	_, err = f.l.Withdraw(f.as(owner), f.coll)
	require.NoError(t, err)
	require.NoError(t, f.l.SetPaused(f.as(owner), f.coll, true))

	wantList, err := f.l.AllowList(f.ctx, f.list)
	require.NoError(t, err)
	wantColl, err := f.l.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	wantEnt, err := f.l.Entitlement(f.ctx, f.ent)
	require.NoError(t, err)
	wantSeq := f.l.Seq()

	require.NoError(t, f.l.Stop())
	f.store.Reopen()

	restarted := mintledger.New(f.store,
		mintledger.WithClock(f.clock.Now),
		mintledger.WithReplayBatchSize(2),
	)
	require.NoError(t, restarted.Start(f.ctx))

	require.Equal(t, wantSeq, restarted.Seq())

	gotList, err := restarted.AllowList(f.ctx, f.list)
	require.NoError(t, err)
	require.Equal(t, wantList, gotList)
	gotColl, err := restarted.Collection(f.ctx, f.coll)
	require.NoError(t, err)
	require.Equal(t, wantColl, gotColl)
	gotEnt, err := restarted.Entitlement(f.ctx, f.ent)
	require.NoError(t, err)
	require.Equal(t, wantEnt, gotEnt)

	owned, err := restarted.OwnedItems(f.ctx, f.coll, alice)
	require.NoError(t, err)
	require.Equal(t, []item.TokenID{1, 3}, owned)

	tid, err := restarted.TokenOfOwnerByIndex(f.ctx, f.coll, alice, 1)
	require.NoError(t, err)
	require.Equal(t, item.TokenID(3), tid)

	require.Equal(t, "0.03", restarted.PayoutBalance(f.ctx, owner).FormatEther())

	// The restarted engine keeps numbering where the journal left off.
	require.NoError(t, restarted.SetPaused(mintledger.WithCaller(f.ctx, owner), f.coll, false))
	tid, err = restarted.Mint(mintledger.WithCaller(f.ctx, carol), f.coll, price())
	require.NoError(t, err)
	require.Equal(t, item.TokenID(4), tid)
}

func TestReplayDetectsGaps(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	cfg := []byte(`{"quota":10}`)
	require.NoError(t, s.Append(ctx, &journal.Transition{
		ID:     id.NewTransitionID(),
		Seq:    2,
		Kind:   journal.KindAllowListCreated,
		Ledger: id.NewAllowListID(),
		Caller: owner,
		Time:   1_700_000_000,
		Config: cfg,
	}))

	l := mintledger.New(s)
	err := l.Start(ctx)
	require.ErrorIs(t, err, mintledger.ErrCorruptJournal)
}

type eventRecorder struct {
	mu        sync.Mutex
	created   []id.ID
	minted    []item.TokenID
	presale   []bool
	rejected  []reason.Code
	withdrawn []types.Amount
	committed []uint64
}

func (r *eventRecorder) Name() string { return "recorder" }

func (r *eventRecorder) OnLedgerCreated(_ context.Context, ledgerID id.ID, _ types.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, ledgerID)
	return nil
}

func (r *eventRecorder) OnItemMinted(_ context.Context, _ id.CollectionID, tid item.TokenID, _ types.Identity, presale bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.minted = append(r.minted, tid)
	r.presale = append(r.presale, presale)
	return nil
}

func (r *eventRecorder) OnRejected(_ context.Context, _ string, _ id.ID, _ types.Identity, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, reason.CodeOf(err))
	return nil
}

func (r *eventRecorder) OnWithdrawn(_ context.Context, _ id.ID, _ types.Identity, amount types.Amount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.withdrawn = append(r.withdrawn, amount)
	return nil
}

func (r *eventRecorder) OnCommitted(_ context.Context, t *journal.Transition, _ time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed = append(r.committed, t.Seq)
	return nil
}

func TestPluginsObserveTransitions(t *testing.T) {
	rec := &eventRecorder{}
	f := defaultFixture(t, mintledger.WithPlugin(rec))
	f.presale(t, alice)

	_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.PresaleMint(f.as(bob), f.coll, price())
	require.ErrorIs(t, err, reason.NotAllowListed)
	f.clock.Advance(time.Hour)
	_, err = f.l.Mint(f.as(bob), f.coll, price())
	require.NoError(t, err)
	_, err = f.l.Withdraw(f.as(owner), f.coll)
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()

	require.Equal(t, []id.ID{f.list, f.coll, f.ent}, rec.created)
	require.Equal(t, []item.TokenID{1, 2}, rec.minted)
	require.Equal(t, []bool{true, false}, rec.presale)
	require.Equal(t, []reason.Code{reason.CodeNotAllowListed}, rec.rejected)
	require.Len(t, rec.withdrawn, 1)
	require.Equal(t, "0.02", rec.withdrawn[0].FormatEther())
	require.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, rec.committed)
}

func TestHistoryFiltersByLedger(t *testing.T) {
	f := defaultFixture(t)
	f.presale(t, alice, bob)
	_, err := f.l.PresaleMint(f.as(alice), f.coll, price())
	require.NoError(t, err)

	history, err := f.l.History(f.ctx, f.list, 0, 0)
	require.NoError(t, err)
	require.Len(t, history, 3)
	require.Equal(t, journal.KindAllowListCreated, history[0].Kind)
	require.Equal(t, journal.KindAdmitted, history[1].Kind)
	require.Equal(t, bob, history[2].Caller)

	history, err = f.l.History(f.ctx, f.coll, history[2].Seq, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, journal.KindPresaleStarted, history[0].Kind)

	_, err = f.l.History(f.ctx, id.Nil, 0, 0)
	require.ErrorIs(t, err, mintledger.ErrInvalidInput)
}
