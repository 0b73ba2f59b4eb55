package service

import (
	"errors"
	"fmt"

	"roomres/internal/model"
)

// ErrNotFound is returned when an identifier matches no reservation.
var ErrNotFound = errors.New("reservation not found")

// ValidationError reports a malformed field. The caller may re-prompt
// for the same field and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConflictError reports that the candidate interval overlaps existing
// reservations for the room and date.
type ConflictError struct {
	Existing []model.Reservation
}

func (e *ConflictError) Error() string {
	return "time slot is already reserved"
}

// StoreError wraps an underlying persistence failure. The operation was
// aborted with no partial writes.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
