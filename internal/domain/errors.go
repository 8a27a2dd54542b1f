package domain

import "errors"

var (
	// ErrValidation marks invalid input from callers.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an operation rejected by current state.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized marks failed authentication or insufficient role.
	ErrUnauthorized = errors.New("unauthorized")
)
