/*
errors.go - Centralized error types for the leave engine

PURPOSE:
  One place for the whole error taxonomy. Every declined operation falls into
  one of four recoverable classes, reported to the caller with a
  human-readable reason and never leaving the ledger in a partial state
  (every write path validates before it mutates).

ERROR CATEGORIES:
  1. Authorization - caller is not the assigned officer / owner for the action
  2. Invalid state - action against a request not in the expected state
  3. Validation    - business rule violation (balance, quota, overlap, chain)
  4. Not found     - unknown request / employee / officer

USAGE:
  The HTTP layer maps classes to status codes:

    switch {
    case leave.IsAuthorization(err): 403
    case leave.IsNotFound(err):      404
    case leave.IsInvalidState(err):  409
    case leave.IsValidation(err):    400
    }

Persistence failures pass through untouched; they are fatal for the single
operation and the caller retries.
*/
package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotAuthorized is returned when the caller is not the assigned
	// officer (or owner) for the attempted action.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrInvalidState is returned when an action targets a request that is
	// not in the expected pending state (double approval, acting on a
	// rejected request, re-setting a maternity end date).
	ErrInvalidState = errors.New("invalid request state")

	// ErrValidation is the base class for declined business rules.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned for unknown request/employee/officer ids.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientBalance is returned when a debit would exceed the
	// remaining entitlement of a bounded pool.
	ErrInsufficientBalance = errors.New("insufficient leave balance")

	// ErrQuotaExhausted is returned when the monthly short-leave quota is
	// used up.
	ErrQuotaExhausted = errors.New("short leave quota exhausted")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AuthorizationError reports who attempted what they were not assigned to.
type AuthorizationError struct {
	Caller string
	Action string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s is not authorized to %s", e.Caller, e.Action)
}

func (e *AuthorizationError) Unwrap() error { return ErrNotAuthorized }

// StateError reports a request in the wrong state for the attempted action.
type StateError struct {
	RequestID string
	Status    Status
	Expected  Status
}

func (e *StateError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("request %s is %s, expected %s", e.RequestID, e.Status, e.Expected)
	}
	return fmt.Sprintf("request %s has already been processed (status %s)", e.RequestID, e.Status)
}

func (e *StateError) Unwrap() error { return ErrInvalidState }

// ValidationError is a declined business rule with a caller-facing reason.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientBalanceError details a balance shortage for a bounded pool.
type InsufficientBalanceError struct {
	EmployeeEmail string
	LeaveType     Type
	Requested     decimal.Decimal
	Available     decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient %s leave balance: requested %s days, available %s days",
		e.LeaveType, e.Requested.String(), e.Available.String())
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// QuotaExhaustedError details an exhausted monthly short-leave quota.
type QuotaExhaustedError struct {
	EmployeeEmail string
	Year          int
	Month         int
	Total         int
}

func (e *QuotaExhaustedError) Error() string {
	return fmt.Sprintf("maximum number of short leaves (%d) already taken for %d-%02d",
		e.Total, e.Year, e.Month)
}

func (e *QuotaExhaustedError) Unwrap() error { return ErrQuotaExhausted }

// NotFoundError names the missing thing.
type NotFoundError struct {
	Kind string // "request", "employee", "officer", "entitlement"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %s not found", e.Kind, e.ID) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// =============================================================================
// ERROR HELPERS
// =============================================================================

func IsAuthorization(err error) bool { return errors.Is(err, ErrNotAuthorized) }

func IsInvalidState(err error) bool { return errors.Is(err, ErrInvalidState) }

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation covers every declined business rule, balance and quota
// shortages included.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrQuotaExhausted)
}

// IsDeclined reports whether the error is a recoverable declined operation
// rather than an infrastructure failure.
func IsDeclined(err error) bool {
	return IsAuthorization(err) || IsInvalidState(err) || IsValidation(err) || IsNotFound(err)
}
