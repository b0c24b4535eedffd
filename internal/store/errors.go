package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple checks.
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// NotFoundError is returned when a record is not in the store.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("record %q not found", e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// IsNotFound reports whether err indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ConflictError is returned on optimistic concurrency conflicts.
type ConflictError struct {
	ID      string
	Message string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict updating record %q: %s", e.ID, e.Message)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// AlreadyExistsError is returned when saving a record whose id is taken.
type AlreadyExistsError struct {
	ID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("record %q already exists", e.ID)
}

func (e *AlreadyExistsError) Unwrap() error { return ErrAlreadyExists }

// IsAlreadyExists reports whether err indicates a duplicate record id.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
