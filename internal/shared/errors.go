package shared

import "errors"

var (
	// ErrNotFound indicates a resource that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique-constraint conflict.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidDate indicates a date string that cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidAmount indicates a numeric input that cannot be parsed.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrValidation indicates input that fails business validation.
	ErrValidation = errors.New("validation failed")
	// ErrPrecondition indicates an operation attempted against the wrong state.
	ErrPrecondition = errors.New("precondition failed")
	// ErrUnderpaid indicates a checkout whose collected total does not cover
	// the amount due.
	ErrUnderpaid = errors.New("collected amount below amount due")
	// ErrForbidden indicates insufficient permissions.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized indicates a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")
)
