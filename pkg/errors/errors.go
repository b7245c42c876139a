// Package errors provides structured error types for the vegaexport compiler.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the preview server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Only configuration-contract violations are fatal; every data-shape
// irregularity is recovered into a smaller-but-valid spec fragment and
// reported as a warning. The codes mirror that split:
//   - INVALID_*: input validation failures (fatal before compilation starts)
//   - NO_LAYERS, MALFORMED_STAT, UNRESOLVED_CI: recovered degradations
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOption, "unrecognized option %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidOption) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidPath, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors (fatal)
	ErrCodeInvalidOption    Code = "INVALID_OPTION"
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeInvalidContext   Code = "INVALID_CONTEXT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"

	// Recovered degradations (reported, never fatal)
	ErrCodeNoLayers      Code = "NO_LAYERS"
	ErrCodeMalformedStat Code = "MALFORMED_STAT"
	ErrCodeUnresolvedCI  Code = "UNRESOLVED_CI"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeSpecNotFound Code = "SPEC_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsFatal reports whether err carries a configuration-contract code.
// Fatal errors abort compilation; everything else degrades gracefully.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidOption, ErrCodeInvalidDimension, ErrCodeInvalidContext, ErrCodeInvalidPath:
		return true
	}
	return false
}
