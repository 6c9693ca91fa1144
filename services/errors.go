package services

import "errors"

// Sentinel errors forming the service-level error taxonomy. Handlers map
// these onto HTTP statuses; services wrap them with context via fmt.Errorf
// and %w so errors.Is keeps working.
var (
	// ErrValidation marks user-correctable input problems (shape, size, type).
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized marks missing or failed authentication.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller acting on another owner's data.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrNoMatch marks a recognition call that produced zero candidates.
	ErrNoMatch = errors.New("no plant matched")
)
