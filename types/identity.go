package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Identity is the account that invokes a ledger operation. Identities are
// supplied by the hosting environment and are trusted.
type Identity = common.Address

// NoIdentity is the zero address. It never owns items or holds balances.
var NoIdentity Identity

// ParseIdentity parses a 0x-prefixed hex address.
func ParseIdentity(s string) (Identity, error) {
	raw := strings.TrimSpace(s)
	if !common.IsHexAddress(raw) {
		return NoIdentity, fmt.Errorf("identity: parse %q: not a hex address", s)
	}
	return common.HexToAddress(raw), nil
}

// MustParseIdentity is like ParseIdentity but panics on error.
func MustParseIdentity(s string) Identity {
	who, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return who
}
