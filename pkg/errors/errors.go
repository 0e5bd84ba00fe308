// Package errors provides structured error types for partscout.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code], so the CLI (or any other front-end) can react to the kind of failure
// without matching on message text:
//   - transient failures (RATE_LIMITED, TIMEOUT, NETWORK_ERROR, UPSTREAM_ERROR)
//     may be retried by the caller
//   - RESOLUTION_FAILED is terminal for a wizard session
//   - EMPTY_CATALOG and NOT_SEARCHABLE are legitimate empty outcomes
//
// # Usage
//
//	err := errors.New(errors.ErrCodeBrandNotFound, "brand not recognized: %s", name)
//	if errors.Is(err, errors.ErrCodeBrandNotFound) {
//	    // ask the user for another brand
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStepFailed, origErr, "wizard step failed")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidQuery Code = "INVALID_QUERY"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeBrandNotFound Code = "BRAND_NOT_FOUND"

	// Transient upstream errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeUpstream    Code = "UPSTREAM_ERROR"
	ErrCodeStepFailed  Code = "STEP_FAILED"

	// Resolution outcomes
	ErrCodeResolutionFailed Code = "RESOLUTION_FAILED"
	ErrCodeEmptyCatalog     Code = "EMPTY_CATALOG"
	ErrCodeNotSearchable    Code = "NOT_SEARCHABLE"

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
// The outermost *Error wins.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Has reports whether any *Error in the chain carries code.
// Unlike [Is] it keeps unwrapping past the first match.
func Has(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
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

// Transient reports whether err is a failure the caller may retry as-is.
func Transient(err error) bool {
	switch GetCode(err) {
	case ErrCodeNetwork, ErrCodeTimeout, ErrCodeRateLimited, ErrCodeUpstream, ErrCodeStepFailed:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
