package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrProviderNotConfigured means the vendor API key is missing.
	// Surfaced at call time, not at startup.
	ErrProviderNotConfigured = errors.New("provider not configured")

	// ErrInsufficientCredits matches any CreditError via errors.Is()
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// CreditError carries the remediation data for a 402 response: how many
// credits the request needs and how many the user has left today.
type CreditError struct {
	Needed    int
	Remaining int
}

// Error implements the error interface
func (e *CreditError) Error() string {
	return "insufficient credits"
}

// StatusCode implements the HTTPError interface
func (e *CreditError) StatusCode() int {
	return http.StatusPaymentRequired
}

// Is allows errors.Is() to match against ErrInsufficientCredits
func (e *CreditError) Is(target error) bool {
	return target == ErrInsufficientCredits
}
