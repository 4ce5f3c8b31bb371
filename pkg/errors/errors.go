// Package errors provides structured error types for gridshift.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The placement taxonomy is:
//   - OUT_OF_BOUNDS: a footprint does not fit the grid at all; never retried
//   - NO_CASCADE_SOLUTION: every cascade direction and the swap fallback failed
//   - INCONSISTENT_STATE: the occupancy index disagrees with the items it was built from;
//     callers recover by rebuilding the index from the canonical item list
//
// The remaining codes cover input validation, drag session misuse and storage.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeOutOfBounds, "item %s does not fit at %v", id, cell)
//	if errors.Is(err, errors.ErrCodeOutOfBounds) {
//	    // reject the drop
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStoreUnavailable, origErr, "load page %s", id)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Placement errors
	ErrCodeOutOfBounds       Code = "OUT_OF_BOUNDS"
	ErrCodeNoCascadeSolution Code = "NO_CASCADE_SOLUTION"
	ErrCodeInconsistentState Code = "INCONSISTENT_STATE"
	ErrCodeItemDoesNotFit    Code = "ITEM_DOES_NOT_FIT"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodePageNotFound Code = "PAGE_NOT_FOUND"

	// Drag session errors
	ErrCodeSessionActive Code = "SESSION_ACTIVE"
	ErrCodeSessionIdle   Code = "SESSION_IDLE"

	// Storage errors
	ErrCodeStoreUnavailable Code = "STORE_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeItemDoesNotFit {
			return "this item doesn't fit here"
		}
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error code to the HTTP status used by the diagnostics API.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeOutOfBounds:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodePageNotFound:
		return http.StatusNotFound
	case ErrCodeSessionActive, ErrCodeNoCascadeSolution, ErrCodeItemDoesNotFit, ErrCodeInconsistentState:
		return http.StatusConflict
	case ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
