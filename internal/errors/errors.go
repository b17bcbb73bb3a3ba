// Package errors provides coded errors shared across the service.
// Codes map onto the failure taxonomy of the run engine and onto HTTP
// statuses at the handler boundary.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an error for callers and the HTTP layer.
type ErrorCode string

const (
	ErrCodeInternal      ErrorCode = "internal"
	ErrCodeNotFound      ErrorCode = "not_found"
	ErrCodeInvalidInput  ErrorCode = "invalid_input"
	ErrCodeConflict      ErrorCode = "conflict"
	ErrCodeConfiguration ErrorCode = "configuration"
	ErrCodeTransaction   ErrorCode = "transaction"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a coded error with no cause.
func New(code ErrorCode, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code ErrorCode, message string) error {
	return &Error{Code: code, Message: message, Cause: err}
}

// NotFound reports a missing resource by type and identifier.
func NotFound(resource, id string) error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s '%s' not found", resource, id)}
}

// InvalidInput reports a rejected field value.
func InvalidInput(field, message string) error {
	return &Error{Code: ErrCodeInvalidInput, Message: fmt.Sprintf("%s: %s", field, message)}
}

// Configuration reports unusable run configuration (unknown mode, bad ratio).
func Configuration(message string) error {
	return &Error{Code: ErrCodeConfiguration, Message: message}
}

// CodeOf extracts the code from err, or ErrCodeInternal for uncoded errors.
func CodeOf(err error) ErrorCode {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
