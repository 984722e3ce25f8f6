package domain

import (
	"errors"
	"fmt"
)

// Predefined domain errors.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidInput indicates the request was malformed or incomplete.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoData indicates no telemetry records matched the query.
	ErrNoData = errors.New("no data available")
	// ErrUpstream indicates a failure talking to the model backend.
	ErrUpstream = errors.New("upstream unavailable")
	// ErrInternal indicates an internal error.
	ErrInternal = errors.New("internal error")
)

// DomainError carries a stable code and a user-safe message alongside
// the wrapped cause.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface (used for logging and internal
// error propagation).
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UserMessage returns the user-facing message without internal details.
func (e *DomainError) UserMessage() string {
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a resource-not-found error.
func NewNotFoundError(resourceType, name string) error {
	return &DomainError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s '%s' not found", resourceType, name),
		Err:     ErrNotFound,
	}
}

// NewInvalidInputError creates an invalid-input error.
func NewInvalidInputError(message string) error {
	return &DomainError{
		Code:    "INVALID_INPUT",
		Message: message,
		Err:     ErrInvalidInput,
	}
}

// NewNoDataError creates a no-data error for a machine query.
func NewNoDataError(machine string) error {
	return &DomainError{
		Code:    "NO_DATA",
		Message: fmt.Sprintf("no data found for machine '%s'", machine),
		Err:     ErrNoData,
	}
}

// NewUpstreamError creates an upstream-failure error.
func NewUpstreamError(err error) error {
	return &DomainError{
		Code:    "UPSTREAM_UNAVAILABLE",
		Message: "model backend is unavailable",
		Err:     fmt.Errorf("%w: %v", ErrUpstream, err),
	}
}

// NewInternalError creates an internal error without exposing details.
func NewInternalError(err error) error {
	return &DomainError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Err:     fmt.Errorf("%w: %v", ErrInternal, err),
	}
}

// IsNotFound reports whether err is a resource-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput reports whether err is an invalid-input error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNoData reports whether err is a no-data error.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData)
}

// IsUpstream reports whether err is an upstream failure.
func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream)
}

// IsInternalError reports whether err is an internal error.
func IsInternalError(err error) bool {
	return errors.Is(err, ErrInternal)
}
