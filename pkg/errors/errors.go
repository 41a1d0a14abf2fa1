// Package errors provides structured error types for the godbolt client.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across discovery, resolution and execution
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input or configuration validation failures
//   - *_NOT_FOUND: A name did not resolve against the registry
//   - NETWORK_*, TIMEOUT, CANCELED: Transport failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "empty source for %s", lang)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDiscovery, origErr, "GET %s", url)
//
// The typed errors in types.go ([DecodingError], [CompilerNotFoundError], ...)
// carry structured fields and report their code through a Code method, so
// [Is] and [GetCode] work on them as well.
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
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidLanguage  Code = "INVALID_LANGUAGE"
	ErrCodeAmbiguousRequest Code = "AMBIGUOUS_REQUEST"

	// Resolution errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeLanguageNotFound Code = "LANGUAGE_NOT_FOUND"
	ErrCodeCompilerNotFound Code = "COMPILER_NOT_FOUND"
	ErrCodeLibraryNotFound  Code = "LIBRARY_NOT_FOUND"

	// Lifecycle errors
	ErrCodeNotInitialized Code = "NOT_INITIALIZED"
	ErrCodeDiscovery      Code = "DISCOVERY_FAILED"
	ErrCodeClosed         Code = "CLIENT_CLOSED"

	// Decoding errors
	ErrCodeDecoding Code = "DECODING_ERROR"

	// Network errors
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"
	ErrCodeCanceled Code = "CANCELED"
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

// coder is implemented by the typed errors of this package.
type coder interface {
	Code() Code
}

// Is reports whether any error in err's chain carries the given code.
// Both *Error values and typed errors exposing a Code method are matched.
func Is(err error, code Code) bool {
	for err != nil {
		if c, ok := codeOf(err); ok && c == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		if c, ok := codeOf(err); ok {
			return c
		}
		err = errors.Unwrap(err)
	}
	return ""
}

func codeOf(err error) (Code, bool) {
	switch e := err.(type) {
	case *Error:
		return e.Code, true
	case coder:
		return e.Code(), true
	}
	return "", false
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
