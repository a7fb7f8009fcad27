package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateRequest   = errors.New("duplicate request")
	ErrInvalidCredentials = errors.New("invalid user id or password")
	ErrInvalidSequenceKey = errors.New("tenant id and lot base are required")
	ErrUsernameTaken      = errors.New("username already taken")

	// ErrOutcomeUnknown marks a write whose connection failed mid-flight;
	// the row may or may not have been committed.
	ErrOutcomeUnknown = errors.New("write outcome unknown")
)

// ValidationError reports malformed or missing input. The caller can fix
// the input and resubmit.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// AllocationError means no index was consumed; retrying is safe.
type AllocationError struct {
	Key SequenceKey
	Err error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate lot index for %q: %v", e.Key.String(), e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// PersistenceError means the insert failed after LotNumber was allocated.
// The index stays consumed.
type PersistenceError struct {
	LotNumber string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist entry %s: %v", e.LotNumber, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
