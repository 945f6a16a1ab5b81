// models/errors.go
package models

import "errors"

// Settlement error taxonomy. All four kinds are caller-visible; the HTTP
// layer maps them to status codes and never retries a money mutation.
var (
	// ErrInsufficientFunds means a debit would drive the wallet balance
	// negative. The request stays pending for manual resolution.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidStateTransition means settlement was attempted on a request
	// that is already in a terminal state. No mutation occurs.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrPermissionDenied means the actor lacks the role required for the
	// operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUpstreamUnavailable means the document store or blob store failed
	// transiently. The operation left no partial mutation and may be retried
	// by the caller.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
