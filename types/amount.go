package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// EtherDecimals is the number of decimal places between ether and wei, and the
// default scaling factor for fungible token balances.
const EtherDecimals = 18

// MaxDecimals is the largest power of ten representable in 256 bits.
const MaxDecimals = 77

// ErrAmountOverflow is returned when an arithmetic result does not fit in 256 bits.
var ErrAmountOverflow = errors.New("amount: overflow")

// Amount is an unsigned 256-bit quantity in the smallest unit of whatever it
// measures (wei for payments, base units for token balances).
// All arithmetic is integer-only and overflow-checked.
//
//nolint:recvcheck // Value receivers for arithmetic, pointer receivers for decoding.
type Amount struct {
	v uint256.Int
}

// NewAmount creates an Amount from a uint64 number of base units.
func NewAmount(units uint64) Amount {
	var a Amount
	a.v.SetUint64(units)
	return a
}

// Zero returns the zero Amount.
func Zero() Amount { return Amount{} }

// FromUint256 copies a uint256 value into an Amount.
func FromUint256(x *uint256.Int) Amount {
	var a Amount
	if x != nil {
		a.v.Set(x)
	}
	return a
}

// Ether converts a whole number of ether into wei.
func Ether(whole uint64) Amount {
	a, err := NewAmount(whole).Scale(EtherDecimals)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseEther parses a decimal ether string such as "0.01" into wei.
func ParseEther(s string) (Amount, error) {
	return ParseUnits(s, EtherDecimals)
}

// MustParseEther is like ParseEther but panics on error. Use for constants.
func MustParseEther(s string) Amount {
	a, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseUnits parses a decimal string with at most decimals fractional digits
// into base units.
func ParseUnits(s string, decimals uint8) (Amount, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return Amount{}, fmt.Errorf("amount: parse %q: empty string", s)
	}

	whole, frac, _ := strings.Cut(raw, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return Amount{}, fmt.Errorf("amount: parse %q: not a decimal number", s)
	}
	if decimals > MaxDecimals {
		return Amount{}, fmt.Errorf("amount: parse %q: %d decimals exceeds %d", s, decimals, MaxDecimals)
	}
	if len(frac) > int(decimals) {
		return Amount{}, fmt.Errorf("amount: parse %q: more than %d decimal places", s, decimals)
	}

	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", int(decimals)-len(frac)), "0")
	if digits == "" {
		return Amount{}, nil
	}

	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return Amount{}, fmt.Errorf("amount: parse %q: %w", s, err)
	}
	return FromUint256(v), nil
}

// Arithmetic operations

// Add returns a+b or ErrAmountOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.AddOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return out, nil
}

// Sub returns a-b or ErrAmountOverflow when b > a.
func (a Amount) Sub(b Amount) (Amount, error) {
	var out Amount
	if _, underflow := out.v.SubOverflow(&a.v, &b.v); underflow {
		return Amount{}, ErrAmountOverflow
	}
	return out, nil
}

// Mul returns a*b or ErrAmountOverflow.
func (a Amount) Mul(b Amount) (Amount, error) {
	var out Amount
	if _, overflow := out.v.MulOverflow(&a.v, &b.v); overflow {
		return Amount{}, ErrAmountOverflow
	}
	return out, nil
}

// MulUint64 returns a*n or ErrAmountOverflow.
func (a Amount) MulUint64(n uint64) (Amount, error) {
	return a.Mul(NewAmount(n))
}

// Scale returns a * 10^decimals or ErrAmountOverflow.
func (a Amount) Scale(decimals uint8) (Amount, error) {
	if decimals > MaxDecimals {
		return Amount{}, ErrAmountOverflow
	}
	return a.Mul(pow10(decimals))
}

// Comparison methods

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a.v.IsZero() }

// Cmp returns -1, 0 or +1 depending on whether a is less than, equal to or
// greater than b.
func (a Amount) Cmp(b Amount) int { return a.v.Cmp(&b.v) }

// Equal reports whether both amounts are equal.
func (a Amount) Equal(b Amount) bool { return a.v.Eq(&b.v) }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.v.Lt(&b.v) }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.v.Gt(&b.v) }

// Uint256 returns a copy of the underlying value.
func (a Amount) Uint256() *uint256.Int { return a.v.Clone() }

// Formatting methods

// String returns the amount in base units as a decimal string.
func (a Amount) String() string { return a.v.Dec() }

// FormatUnits renders the amount with the given number of decimals, keeping
// at least one fractional digit: FormatUnits(20e18, 18) == "20.0".
func (a Amount) FormatUnits(decimals uint8) string {
	if decimals == 0 || decimals > MaxDecimals {
		return a.String()
	}

	var quo, rem uint256.Int
	quo.DivMod(&a.v, pow10(decimals).Uint256(), &rem)

	frac := rem.Dec()
	frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return quo.Dec() + "." + frac
}

// FormatEther renders a wei amount in ether.
func (a Amount) FormatEther() string { return a.FormatUnits(EtherDecimals) }

// MarshalText implements encoding.TextMarshaler.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.v.Dec()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Amount) UnmarshalText(data []byte) error {
	parsed, err := ParseUnits(string(data), 0)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer. Amounts are stored as decimal text so that
// every backend can hold the full 256-bit range.
func (a Amount) Value() (driver.Value, error) {
	return a.v.Dec(), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Amount{}
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	case int64:
		if v < 0 {
			return fmt.Errorf("amount: cannot scan negative %d", v)
		}
		*a = NewAmount(uint64(v))
		return nil
	default:
		return fmt.Errorf("amount: cannot scan %T into Amount", src)
	}
}

// Sum adds all values, failing on overflow.
func Sum(values ...Amount) (Amount, error) {
	var total Amount
	for _, v := range values {
		next, err := total.Add(v)
		if err != nil {
			return Amount{}, err
		}
		total = next
	}
	return total, nil
}

// Helper functions

func pow10(decimals uint8) Amount {
	var a Amount
	a.v.Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
	return a
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
