// Package reason enumerates why a ledger rejected an operation.
//
// A rejection is a normal, expected outcome of an individual call: the
// operation reverts in full and the ledger stays usable. Each rejection
// carries a stable Code and a Category so callers can branch with
// errors.Is against the exported values or inspect the code with CodeOf.
package reason

import "errors"

// Code is a stable, machine-readable rejection reason.
type Code string

// Category groups rejection codes by the kind of precondition that failed.
type Category string

// Categories.
const (
	CategoryAuthorization Category = "authorization"
	CategoryState         Category = "state"
	CategoryCapacity      Category = "capacity"
	CategoryPayment       Category = "payment"
	CategoryNotFound      Category = "not_found"
)

// Codes.
const (
	CodeNotAuthorized       Code = "not_authorized"
	CodeNotAllowListed      Code = "not_allow_listed"
	CodeAlreadyAdmitted     Code = "already_admitted"
	CodeAlreadyStarted      Code = "already_started"
	CodePresaleNotActive    Code = "presale_not_active"
	CodePresaleStillActive  Code = "presale_still_active"
	CodePresaleNotConcluded Code = "presale_not_concluded"
	CodePaused              Code = "paused"
	CodeQuotaReached        Code = "quota_reached"
	CodeSupplyExhausted     Code = "supply_exhausted"
	CodeSupplyCapExceeded   Code = "supply_cap_exceeded"
	CodeWrongPayment        Code = "wrong_payment"
	CodeUnknownItem         Code = "unknown_item"
	CodeNoItemsOwned        Code = "no_items_owned"
	CodeAllItemsClaimed     Code = "all_items_claimed"
)

// Error is a rejection with a reason code.
type Error struct {
	Code     Code
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return "mintledger: " + e.Message
}

// Is matches any *Error with the same code, so wrapped copies still compare
// equal to the exported sentinels.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Rejection sentinels.
var (
	// Authorization failures
	NotAuthorized  = &Error{CodeNotAuthorized, CategoryAuthorization, "caller is not the ledger admin"}
	NotAllowListed = &Error{CodeNotAllowListed, CategoryAuthorization, "caller is not on the allow-list"}

	// State-precondition failures
	AlreadyAdmitted     = &Error{CodeAlreadyAdmitted, CategoryState, "identity has already been admitted"}
	AlreadyStarted      = &Error{CodeAlreadyStarted, CategoryState, "presale has already been started"}
	PresaleNotActive    = &Error{CodePresaleNotActive, CategoryState, "presale is not running"}
	PresaleStillActive  = &Error{CodePresaleStillActive, CategoryState, "presale has not ended yet"}
	PresaleNotConcluded = &Error{CodePresaleNotConcluded, CategoryState, "presale has not been held yet"}
	Paused              = &Error{CodePaused, CategoryState, "ledger is paused"}

	// Capacity failures
	QuotaReached      = &Error{CodeQuotaReached, CategoryCapacity, "allow-list quota reached"}
	SupplyExhausted   = &Error{CodeSupplyExhausted, CategoryCapacity, "item supply exhausted"}
	SupplyCapExceeded = &Error{CodeSupplyCapExceeded, CategoryCapacity, "exceeds the max total supply"}

	// Payment-validation failures
	WrongPayment = &Error{CodeWrongPayment, CategoryPayment, "payment does not match the required amount"}

	// Not-found failures
	UnknownItem     = &Error{CodeUnknownItem, CategoryNotFound, "item does not exist"}
	NoItemsOwned    = &Error{CodeNoItemsOwned, CategoryNotFound, "caller owns no items"}
	AllItemsClaimed = &Error{CodeAllItemsClaimed, CategoryNotFound, "every owned item has already been claimed"}
)

// CodeOf returns the rejection code carried by err, or "" if err is not a
// rejection.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// CategoryOf returns the rejection category carried by err, or "".
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
