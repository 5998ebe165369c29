// Package id defines TypeID-based identifiers for mintledger records.
//
// Every ledger instance and every journaled transition carries an ID whose
// prefix names the record kind. IDs are K-sortable (UUIDv7-based), globally
// unique, and URL-safe in the format "prefix_suffix".
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record kind encoded in a TypeID.
type Prefix string

// Prefix constants for all mintledger record kinds.
const (
	PrefixAllowList   Prefix = "alst" // Allow-list ledger
	PrefixCollection  Prefix = "coll" // Item mint ledger
	PrefixEntitlement Prefix = "ent"  // Entitlement ledger
	PrefixTransition  Prefix = "txn"  // Journaled transition
)

// ID is the identifier type for all mintledger records.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receivers for UnmarshalText/Scan.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "coll_01h2xcejqtf2nbrexx3vqjhp41").
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and checks its prefix.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// AllowListID identifies an allow-list ledger (prefix: "alst").
type AllowListID = ID

// CollectionID identifies an item mint ledger (prefix: "coll").
type CollectionID = ID

// EntitlementID identifies an entitlement ledger (prefix: "ent").
type EntitlementID = ID

// TransitionID identifies a journaled transition (prefix: "txn").
type TransitionID = ID

func NewAllowListID() ID   { return New(PrefixAllowList) }
func NewCollectionID() ID  { return New(PrefixCollection) }
func NewEntitlementID() ID { return New(PrefixEntitlement) }
func NewTransitionID() ID  { return New(PrefixTransition) }

func ParseAllowListID(s string) (ID, error)   { return ParseWithPrefix(s, PrefixAllowList) }
func ParseCollectionID(s string) (ID, error)  { return ParseWithPrefix(s, PrefixCollection) }
func ParseEntitlementID(s string) (ID, error) { return ParseWithPrefix(s, PrefixEntitlement) }
func ParseTransitionID(s string) (ID, error)  { return ParseWithPrefix(s, PrefixTransition) }

// String returns the full TypeID string, or "" for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// Value implements driver.Valuer. The Nil ID is stored as NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.valid {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}

	return i.inner.String(), nil
}

// Scan implements sql.Scanner.
func (i *ID) Scan(src any) error {
	if src == nil {
		*i = Nil

		return nil
	}

	switch v := src.(type) {
	case string:
		if v == "" {
			*i = Nil

			return nil
		}

		return i.UnmarshalText([]byte(v))
	case []byte:
		if len(v) == 0 {
			*i = Nil

			return nil
		}

		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T into ID", src)
	}
}
