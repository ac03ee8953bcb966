/*
errors.go - Centralized error types for payroll transactions

PURPOSE:
  Every precondition a transaction can violate is an invalid operation.
  Callers can match the broad class or a narrower reason:

    errors.Is(err, payroll.ErrInvalidOperation) // any rejected transaction
    errors.Is(err, payroll.ErrNotHourly)        // specific reason

  OperationError carries which transaction failed and for which ids.

SEE ALSO:
  - transaction.go: Constructors that return these errors
  - api/handlers.go: Maps them to HTTP status codes
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

// ErrInvalidOperation is the class of every transaction validation failure.
var ErrInvalidOperation = errors.New("invalid operation")

var (
	ErrNoSuchEmployee    = invalid("no such employee")
	ErrNoSuchMember      = invalid("no such union member")
	ErrNotHourly         = invalid("employee not hourly")
	ErrNotCommissioned   = invalid("employee not commissioned")
	ErrNotUnionMember    = invalid("employee not a union member")
	ErrDuplicateEmployee = invalid("employee id already exists")
	ErrDuplicateMember   = invalid("union member id already registered")
	ErrNegativeAmount    = invalid("amount must not be negative")
	ErrUnknownMethod     = invalid("unknown payment method")
	ErrMissingDate       = invalid("date is required")
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, reason)
}

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OperationError records which transaction was rejected and why.
type OperationError struct {
	Op         string
	EmployeeID EmployeeID
	MemberID   MemberID
	Field      string // set for ErrNegativeAmount and ErrMissingDate
	Err        error
}

func (e *OperationError) Error() string {
	msg := e.Op
	if e.EmployeeID != 0 {
		msg += fmt.Sprintf(" employee=%d", e.EmployeeID)
	}
	if e.MemberID != 0 {
		msg += fmt.Sprintf(" member=%d", e.MemberID)
	}
	if e.Field != "" {
		msg += " field=" + e.Field
	}
	return msg + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInvalidOperation reports whether err is a rejected transaction.
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsNotFound returns true if the error indicates a missing employee or member.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoSuchEmployee) ||
		errors.Is(err, ErrNoSuchMember)
}

// IsConflict returns true if the error is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrDuplicateEmployee) ||
		errors.Is(err, ErrDuplicateMember)
}
