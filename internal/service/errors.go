package service

import "errors"

// Sentinel errors returned by the service layer. Handlers branch on
// these with errors.Is to pick the HTTP status; everything else maps
// to an internal error.
var (
	// ErrValidation marks a request the caller can fix: a business rule
	// was violated or a field value is out of range.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a missing request, catalog entry or image.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks stale client state, such as a catalog snapshot
	// that no longer matches the live catalog.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized marks failed staff authentication.
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError carries a user-facing message together with its error
// kind, so handlers can branch with errors.Is and still show the
// message verbatim.
type DomainError struct {
	kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.kind }

func NewValidationError(message string) error {
	return &DomainError{kind: ErrValidation, Message: message}
}

func NewNotFoundError(message string) error {
	return &DomainError{kind: ErrNotFound, Message: message}
}

func NewConflictError(message string) error {
	return &DomainError{kind: ErrConflict, Message: message}
}
