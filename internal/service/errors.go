package service

import "errors"

// Business failures the boundary maps to client-facing statuses. Anything
// else is an internal/store error and must be reported opaquely.
var (
	ErrNotFound           = errors.New("user not found")
	ErrConflict           = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError wraps ErrInvalidInput with the failing field detail.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
