package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")

	// ErrConflict means a concurrent writer changed the order's status
	// between our read and our compare-and-set write. Transient; the
	// caller may retry.
	ErrConflict = errors.New("concurrent order modification")

	// ErrDuplicateCheckout means another request holding the same
	// idempotency key is in flight.
	ErrDuplicateCheckout = errors.New("duplicate checkout request")
)

// UpstreamError marks a failed-not-completed call to an external
// collaborator (payment, broker). Retryable, unlike a client rejection.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
