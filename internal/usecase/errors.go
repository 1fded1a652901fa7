package usecase

import "errors"

// Sentinels are wrapped with context by services and mapped to HTTP statuses by httpapi.
var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrMisconfigured reports a missing deployment setting, such as the push server key.
	ErrMisconfigured = errors.New("service misconfigured")
)
