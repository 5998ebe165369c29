package mintledger

import (
	"errors"
	"fmt"

	"github.com/xraph/mintledger/reason"
)

// Sentinel errors for infrastructure failures. Business rejections are
// *reason.Error values; see package reason.
var (
	// General errors
	ErrInvalidInput = errors.New("mintledger: invalid input")
	ErrNoCaller     = errors.New("mintledger: no caller identity in context")
	ErrNotStarted   = errors.New("mintledger: engine not started")

	// Ledger errors
	ErrLedgerNotFound = errors.New("mintledger: ledger not found")
	ErrWrongKind      = errors.New("mintledger: ledger id has the wrong kind")

	// Journal errors
	ErrSequenceConflict = errors.New("mintledger: journal sequence already taken")
	ErrCorruptJournal   = errors.New("mintledger: journal cannot be replayed")

	// Store errors
	ErrStoreNotReady   = errors.New("mintledger: store not ready")
	ErrStoreClosed     = errors.New("mintledger: store is closed")
	ErrMigrationFailed = errors.New("mintledger: migration failed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("mintledger: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match validation failures.
func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// MultiError represents multiple errors that occurred.
type MultiError struct {
	Errors []error
}

func (e MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "mintledger: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("mintledger: %d errors occurred", len(e.Errors))
}

// Add adds an error to the multi-error.
func (e *MultiError) Add(err error) {
	if err != nil {
		e.Errors = append(e.Errors, err)
	}
}

// HasErrors returns true if there are any errors.
func (e MultiError) HasErrors() bool {
	return len(e.Errors) > 0
}

// First returns the first error or nil.
func (e MultiError) First() error {
	if len(e.Errors) > 0 {
		return e.Errors[0]
	}
	return nil
}

// Unwrap exposes every collected error to errors.Is and errors.As.
func (e MultiError) Unwrap() []error { return e.Errors }

// IsRejection returns true if the error is a business rejection. The
// operation reverted and the engine remains usable.
func IsRejection(err error) bool {
	return reason.CodeOf(err) != ""
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLedgerNotFound) ||
		reason.CategoryOf(err) == reason.CategoryNotFound
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreNotReady) ||
		errors.Is(err, ErrSequenceConflict)
}
