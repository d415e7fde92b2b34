package usecase

import (
	"errors"
	"fmt"
)

// ErrBookingNotFound is returned when the target booking does not exist in
// the booking record store.
var ErrBookingNotFound = errors.New("booking not found")

// ValidationError means a precondition was not met: ineligible status,
// missing payment id, amount out of range, or a concurrent attempt already
// in flight. The gateway is never contacted and no ledger entry is written
// for the rejected attempt.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// GatewayError means the external refund call failed or timed out. A
// REFUND_FAILED ledger entry has been written; booking status is unchanged
// and the operator may retry.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return "refund gateway: " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// PersistenceError means the ledger or booking store was unavailable. Before
// the gateway call this aborts the whole operation; after a gateway success
// it is reported but the monetary refund is never rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
