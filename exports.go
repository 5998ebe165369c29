package mintledger

import (
	"github.com/xraph/mintledger/item"
	"github.com/xraph/mintledger/types"
)

// Re-export common types for convenience so users don't have to import types package.

// Amount is re-exported from types package.
type Amount = types.Amount

// Identity is re-exported from types package.
type Identity = types.Identity

// Entity is re-exported from types package.
type Entity = types.Entity

// TokenID is re-exported from item package.
type TokenID = item.TokenID

// Re-export Amount constructors
var (
	NewAmount  = types.NewAmount
	Ether      = types.Ether
	ParseEther = types.ParseEther
	ParseUnits = types.ParseUnits
	Zero       = types.Zero
	Sum        = types.Sum
)

// Re-export Identity parsing
var ParseIdentity = types.ParseIdentity
