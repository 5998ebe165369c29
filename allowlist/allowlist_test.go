package allowlist_test

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/xraph/mintledger/allowlist"
	"github.com/xraph/mintledger/id"
	"github.com/xraph/mintledger/reason"
	"github.com/xraph/mintledger/types"
)

func addr(n int) types.Identity {
	return common.BigToAddress(big.NewInt(int64(n)))
}

func newList(quota uint64) *allowlist.Ledger {
	return allowlist.New(id.NewAllowListID(), addr(1000), allowlist.Config{Quota: quota}, time.Unix(0, 0))
}

func TestAdmitQuota(t *testing.T) {
	l := newList(3)

	for i := 1; i <= 3; i++ {
		if err := l.Admit(addr(i)); err != nil {
			t.Fatalf("admit %d: %v", i, err)
		}
	}
	if !l.Full() {
		t.Error("expected allow-list to be full")
	}

	err := l.Admit(addr(4))
	if !errors.Is(err, reason.QuotaReached) {
		t.Fatalf("expected QuotaReached, got %v", err)
	}
	if l.Admitted != 3 {
		t.Errorf("admitted = %d, want 3", l.Admitted)
	}
	if l.IsAdmitted(addr(4)) {
		t.Error("rejected identity must not be admitted")
	}
}

func TestAdmitTwice(t *testing.T) {
	l := newList(5)
	if err := l.Admit(addr(1)); err != nil {
		t.Fatal(err)
	}

	if err := l.Admit(addr(1)); !errors.Is(err, reason.AlreadyAdmitted) {
		t.Fatalf("expected AlreadyAdmitted, got %v", err)
	}
	if l.Admitted != 1 {
		t.Errorf("admitted = %d, want 1", l.Admitted)
	}
}

func TestAlreadyAdmittedWinsOverQuota(t *testing.T) {
	l := newList(1)
	if err := l.Admit(addr(1)); err != nil {
		t.Fatal(err)
	}

	if err := l.Admit(addr(1)); !errors.Is(err, reason.AlreadyAdmitted) {
		t.Fatalf("expected AlreadyAdmitted on a full list, got %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	l := newList(5)
	_ = l.Admit(addr(1))

	c := l.Clone()
	_ = c.Admit(addr(2))

	if l.IsAdmitted(addr(2)) || l.Admitted != 1 {
		t.Error("mutating the clone changed the original")
	}
	if !c.IsAdmitted(addr(1)) {
		t.Error("clone lost existing members")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := allowlist.DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := (allowlist.Config{}).Validate(); err == nil {
		t.Error("expected error for zero quota")
	}
}

func ExampleLedger_Admit() {
	l := newList(1)
	fmt.Println(l.Admit(addr(1)))
	fmt.Println(reason.CodeOf(l.Admit(addr(2))))
	// Output:
	// <nil>
	// quota_reached
}
