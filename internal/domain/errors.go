package domain

import "errors"

// Domain errors (no external dependencies). Handlers classify them with errors.Is.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrWeakPassword       = errors.New("password must be at least 8 characters long")
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrRegistrationFailed is what callers see for a duplicate email; it does not say which constraint failed.
	ErrRegistrationFailed = errors.New("registration failed")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingToken       = errors.New("missing credential")
	ErrInvalidToken       = errors.New("invalid credential")
	ErrTokenExpired       = errors.New("credential expired")
	ErrForbidden          = errors.New("access denied")
	ErrPendingApproval    = errors.New("account pending approval")
	ErrInvalidTransition  = errors.New("invalid status transition")
	// ErrConflict the row changed between read and write.
	ErrConflict = errors.New("conflict with current state")
)
