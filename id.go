package mintledger

import "github.com/xraph/mintledger/id"

// ID is the identifier type for ledgers and transitions.
type ID = id.ID

// Prefix identifies the record kind encoded in a TypeID.
type Prefix = id.Prefix
