package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	// ErrInvalidRange rejects stays with zero or negative nights.
	ErrInvalidRange = errors.New("end date must be after start date")
)

// InvalidRequestError reports malformed stay parameters. Validation runs
// before any external call, so this never follows a side effect.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// ProcessorError wraps a failed payment-processor call. No local state has
// changed when it is returned; a retry starts a fresh create.
type ProcessorError struct {
	Op  string
	Err error
}

func (e *ProcessorError) Error() string { return fmt.Sprintf("processor %s: %v", e.Op, e.Err) }
func (e *ProcessorError) Unwrap() error { return e.Err }

// StoreError reports a persistence failure. When OrphanIntentID is set the
// processor already holds an authorization that no local row references, and
// an operator has to reconcile it (see cmd/auditor). Conflict marks the
// store-level uniqueness rejection, which callers may retry as a lookup.
type StoreError struct {
	Conflict       bool
	OrphanIntentID string
	Err            error
}

func (e *StoreError) Error() string {
	if e.Conflict {
		return fmt.Sprintf("store conflict: %v", e.Err)
	}
	return fmt.Sprintf("store: %v", e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
