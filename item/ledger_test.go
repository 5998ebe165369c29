package item_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

var (
	admin = addr(1)
	alice = addr(2)
	bob   = addr(3)
	eve   = addr(4)

	price = types.MustParseEther("0.01")
	t0    = time.Unix(1_700_000_000, 0)
)

func addr(n int64) types.Identity { return common.BigToAddress(big.NewInt(n)) }

// gate is a fixed allow-list.
type gate map[types.Identity]bool

func (g gate) IsAdmitted(who types.Identity) bool { return g[who] }

func newCollection(supply uint64) *item.Ledger {
	cfg := item.DefaultConfig()
	cfg.SupplyCap = supply
	cfg.BaseURI = "https://example.com/cd/"
	return item.New(id.NewCollectionID(), id.NewAllowListID(), admin, cfg, t0)
}

func TestPresaleWindow(t *testing.T) {
	l := newCollection(20)
	g := gate{alice: true}

	if got := l.PresaleState(t0); got != item.PresaleNotStarted {
		t.Fatalf("state = %s, want not_started", got)
	}
	if err := l.StartPresale(admin, t0); err != nil {
		t.Fatal(err)
	}
	if l.PresaleEnd != t0.Unix()+300 {
		t.Errorf("presale end = %d, want %d", l.PresaleEnd, t0.Unix()+300)
	}

	if _, err := l.PresaleMint(g, alice, price, t0.Add(295*time.Second)); err != nil {
		t.Fatalf("presale mint inside window: %v", err)
	}
	if _, err := l.PresaleMint(g, alice, price, t0.Add(305*time.Second)); !errors.Is(err, reason.PresaleNotActive) {
		t.Fatalf("expected PresaleNotActive after window, got %v", err)
	}
	if got := l.PresaleState(t0.Add(300 * time.Second)); got != item.PresaleEnded {
		t.Errorf("state at end = %s, want ended", got)
	}
}

func TestStartPresaleGuards(t *testing.T) {
	l := newCollection(20)

	if err := l.StartPresale(alice, t0); !errors.Is(err, reason.NotAuthorized) {
		t.Fatalf("expected NotAuthorized, got %v", err)
	}
	if err := l.StartPresale(admin, t0); err != nil {
		t.Fatal(err)
	}
	if err := l.StartPresale(admin, t0.Add(time.Hour)); !errors.Is(err, reason.AlreadyStarted) {
		t.Fatalf("expected AlreadyStarted, got %v", err)
	}
	if l.PresaleEnd != t0.Unix()+300 {
		t.Error("second start must not move the presale end")
	}
}

func TestPresaleMintCheckOrder(t *testing.T) {
	active := t0.Add(10 * time.Second)

	tests := []struct {
		name    string
		setup   func(l *item.Ledger)
		caller  types.Identity
		payment types.Amount
		now     time.Time
		want    error
	}{
		{
			name:    "paused before window",
			setup:   func(l *item.Ledger) { _ = l.SetPaused(admin, true) },
			caller:  eve,
			payment: types.Zero(),
			now:     t0.Add(-time.Second),
			want:    reason.Paused,
		},
		{
			name:    "not started",
			caller:  alice,
			payment: price,
			now:     t0,
			want:    reason.PresaleNotActive,
		},
		{
			name:    "not allow-listed with wrong payment",
			setup:   func(l *item.Ledger) { _ = l.StartPresale(admin, t0) },
			caller:  eve,
			payment: types.Zero(),
			now:     active,
			want:    reason.NotAllowListed,
		},
		{
			name:    "wrong payment",
			setup:   func(l *item.Ledger) { _ = l.StartPresale(admin, t0) },
			caller:  alice,
			payment: types.MustParseEther("0.015"),
			now:     active,
			want:    reason.WrongPayment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newCollection(20)
			if tt.setup != nil {
				tt.setup(l)
			}
			_, err := l.PresaleMint(gate{alice: true}, tt.caller, tt.payment, tt.now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if l.Minted != 0 || !l.Custody.IsZero() {
				t.Error("rejected mint changed state")
			}
		})
	}
}

func TestOpenMintPhases(t *testing.T) {
	l := newCollection(20)

	if _, err := l.Mint(alice, price, t0); !errors.Is(err, reason.PresaleNotConcluded) {
		t.Fatalf("before presale: got %v, want PresaleNotConcluded", err)
	}

	_ = l.StartPresale(admin, t0)
	if _, err := l.Mint(alice, price, t0.Add(time.Minute)); !errors.Is(err, reason.PresaleStillActive) {
		t.Fatalf("during presale: got %v, want PresaleStillActive", err)
	}

	after := t0.Add(6 * time.Minute)
	tid, err := l.Mint(alice, price, after)
	if err != nil {
		t.Fatalf("after presale: %v", err)
	}
	if tid != 1 {
		t.Errorf("token id = %d, want 1", tid)
	}
}

func TestPaymentMustMatchExactly(t *testing.T) {
	l := newCollection(20)
	_ = l.StartPresale(admin, t0)
	after := t0.Add(time.Hour)

	for _, p := range []string{"0.015", "0.005", "0"} {
		if _, err := l.Mint(alice, types.MustParseEther(p), after); !errors.Is(err, reason.WrongPayment) {
			t.Errorf("payment %s: got %v, want WrongPayment", p, err)
		}
	}
	if _, err := l.Mint(alice, price, after); err != nil {
		t.Fatalf("exact payment: %v", err)
	}
	if !l.Custody.Equal(price) {
		t.Errorf("custody = %s, want %s", l.Custody, price)
	}
}

func TestSupplyExhausted(t *testing.T) {
	l := newCollection(3)
	g := gate{alice: true}
	_ = l.StartPresale(admin, t0)

	// two presale mints, one open mint
	for i := 0; i < 2; i++ {
		if _, err := l.PresaleMint(g, alice, price, t0.Add(time.Second)); err != nil {
			t.Fatal(err)
		}
	}
	after := t0.Add(time.Hour)
	if _, err := l.Mint(bob, price, after); err != nil {
		t.Fatal(err)
	}

	if _, err := l.Mint(bob, price, after); !errors.Is(err, reason.SupplyExhausted) {
		t.Fatalf("got %v, want SupplyExhausted", err)
	}
	// exhaustion is reported before payment validation
	if _, err := l.Mint(bob, types.Zero(), after); !errors.Is(err, reason.SupplyExhausted) {
		t.Fatalf("got %v, want SupplyExhausted", err)
	}

	for tid := item.TokenID(1); tid <= 3; tid++ {
		if _, err := l.OwnerOf(tid); err != nil {
			t.Errorf("token %d: %v", tid, err)
		}
	}
	if _, err := l.OwnerOf(4); !errors.Is(err, reason.UnknownItem) {
		t.Errorf("token 4 should not exist, got %v", err)
	}
}

func TestPause(t *testing.T) {
	l := newCollection(20)
	g := gate{admin: true, alice: true}
	_ = l.StartPresale(admin, t0)

	if err := l.SetPaused(alice, true); !errors.Is(err, reason.NotAuthorized) {
		t.Fatalf("got %v, want NotAuthorized", err)
	}
	if err := l.SetPaused(admin, true); err != nil {
		t.Fatal(err)
	}

	for _, who := range []types.Identity{admin, alice} {
		if _, err := l.PresaleMint(g, who, price, t0.Add(time.Second)); !errors.Is(err, reason.Paused) {
			t.Errorf("presale mint while paused: got %v", err)
		}
		if _, err := l.Mint(who, price, t0.Add(time.Hour)); !errors.Is(err, reason.Paused) {
			t.Errorf("mint while paused: got %v", err)
		}
	}

	_ = l.SetPaused(admin, false)
	if _, err := l.PresaleMint(g, alice, price, t0.Add(time.Second)); err != nil {
		t.Fatalf("after unpause: %v", err)
	}
}

func TestWithdraw(t *testing.T) {
	l := newCollection(20)
	_ = l.StartPresale(admin, t0)
	_, _ = l.Mint(alice, price, t0.Add(time.Hour))
	_, _ = l.Mint(bob, price, t0.Add(time.Hour))

	if _, err := l.Withdraw(alice); !errors.Is(err, reason.NotAuthorized) {
		t.Fatalf("got %v, want NotAuthorized", err)
	}
	if want := types.MustParseEther("0.02"); !l.Custody.Equal(want) {
		t.Fatalf("custody = %s, want %s", l.Custody, want)
	}

	got, err := l.Withdraw(admin)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(types.MustParseEther("0.02")) {
		t.Errorf("withdrawn = %s", got.FormatEther())
	}
	if !l.Custody.IsZero() {
		t.Error("custody not zeroed")
	}

	again, err := l.Withdraw(admin)
	if err != nil || !again.IsZero() {
		t.Errorf("empty withdraw = %s, %v", again, err)
	}
}

func TestDescriptorsAndViews(t *testing.T) {
	l := newCollection(20)
	_ = l.StartPresale(admin, t0)
	after := t0.Add(time.Hour)
	_, _ = l.Mint(alice, price, after)
	_, _ = l.Mint(bob, price, after)
	_, _ = l.Mint(alice, price, after)

	uri, err := l.TokenDescriptor(3)
	if err != nil {
		t.Fatal(err)
	}
	if uri != "https://example.com/cd/3" {
		t.Errorf("descriptor = %q", uri)
	}
	for _, tid := range []item.TokenID{0, 4} {
		if _, err := l.TokenDescriptor(tid); !errors.Is(err, reason.UnknownItem) {
			t.Errorf("descriptor(%d): got %v, want UnknownItem", tid, err)
		}
	}

	if n := l.BalanceOf(alice); n != 2 {
		t.Errorf("balance = %d, want 2", n)
	}
	owned := l.OwnedItems(alice)
	if len(owned) != 2 || owned[0] != 1 || owned[1] != 3 {
		t.Errorf("owned = %v, want [1 3]", owned)
	}
	if tid, _ := l.TokenOfOwnerByIndex(alice, 1); tid != 3 {
		t.Errorf("token of owner by index = %d, want 3", tid)
	}
	if _, err := l.TokenOfOwnerByIndex(alice, 2); !errors.Is(err, reason.UnknownItem) {
		t.Errorf("out of range index: got %v", err)
	}
	if owned := l.OwnedItems(eve); owned != nil {
		t.Errorf("eve owns %v", owned)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := newCollection(20)
	_ = l.StartPresale(admin, t0)
	_, _ = l.Mint(alice, price, t0.Add(time.Hour))

	c := l.Clone()
	_, _ = c.Mint(alice, price, t0.Add(time.Hour))

	if l.Minted != 1 || l.BalanceOf(alice) != 1 {
		t.Error("mutating the clone changed the original")
	}
	if c.BalanceOf(alice) != 2 {
		t.Error("clone did not record its own mint")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := item.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := (item.Config{}).Validate(); err == nil {
		t.Error("expected error for empty config")
	}

	for _, d := range []time.Duration{500 * time.Millisecond, 1500 * time.Millisecond, time.Minute + time.Nanosecond} {
		cfg := item.DefaultConfig()
		cfg.PresaleDuration = d
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for presale duration %s", d)
		}
	}

	cfg := item.DefaultConfig()
	cfg.PresaleDuration = 90 * time.Second
	if err := cfg.Validate(); err != nil {
		t.Errorf("whole-second duration rejected: %v", err)
	}
}
