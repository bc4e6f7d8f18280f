// Package errors provides structured error types for editplot.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (documents, colors, arrays)
//   - MISSING_*: Required document keys that are absent
//   - UNSUPPORTED_*: Requests the renderer cannot serve
//   - INTERNAL_*: Unexpected internal errors
//
// An *Error always unwraps to its cause, so I/O and JSON errors raised by the
// standard library stay reachable through errors.Is and errors.As.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingKey, "panel %d: missing subplot_index", i)
//	if errors.Is(err, errors.ErrCodeMissingKey) {
//	    // Handle schema error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidColor, origErr, "line %d color", i)
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
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidDocument  Code = "INVALID_DOCUMENT"
	ErrCodeInvalidColor     Code = "INVALID_COLOR"
	ErrCodeInvalidLineStyle Code = "INVALID_LINESTYLE"
	ErrCodeInvalidArray     Code = "INVALID_ARRAY"
	ErrCodeInvalidAspect    Code = "INVALID_ASPECT"
	ErrCodeInvalidShape     Code = "INVALID_SHAPE"
	ErrCodeLengthMismatch   Code = "LENGTH_MISMATCH"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Schema errors
	ErrCodeMissingKey Code = "MISSING_KEY"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal          Code = "INTERNAL_ERROR"
	ErrCodeUnsupported       Code = "UNSUPPORTED"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"
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
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		if e.Cause == nil {
			return false
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
