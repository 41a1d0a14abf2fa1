package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// DecodingError reports a remote JSON record that is missing a required
// field or carries a field of the wrong shape.
type DecodingError struct {
	Entity string // Entity being decoded (e.g. "language")
	Field  string // Offending field, empty when the record itself is malformed
	Reason string // Short description (e.g. "missing", "expected string")
	Cause  error  // Underlying json error (optional)
}

func (e *DecodingError) Error() string {
	msg := "decode " + e.Entity
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

func (e *DecodingError) Unwrap() error { return e.Cause }

// Code returns [ErrCodeDecoding].
func (e *DecodingError) Code() Code { return ErrCodeDecoding }

// NotInitializedError is returned by lookups and executions issued before
// discovery has completed.
type NotInitializedError struct {
	Op string // Operation that was refused (e.g. "execute")
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("%s: client not initialized, call Init first", e.Op)
}

// Code returns [ErrCodeNotInitialized].
func (e *NotInitializedError) Code() Code { return ErrCodeNotInitialized }

// LanguageNotFoundError reports a language name or id that does not
// resolve in the registry.
type LanguageNotFoundError struct {
	Language string
}

func (e *LanguageNotFoundError) Error() string {
	return fmt.Sprintf("language %q not found", e.Language)
}

// Code returns [ErrCodeLanguageNotFound].
func (e *LanguageNotFoundError) Code() Code { return ErrCodeLanguageNotFound }

// CompilerNotFoundError reports a compiler name or id that does not resolve
// under the given language. Compiler is empty when the language has no
// compilers at all.
type CompilerNotFoundError struct {
	Language string
	Compiler string
}

func (e *CompilerNotFoundError) Error() string {
	if e.Compiler == "" {
		return fmt.Sprintf("language %q has no compilers", e.Language)
	}
	return fmt.Sprintf("compiler %q not found for language %q", e.Compiler, e.Language)
}

// Code returns [ErrCodeCompilerNotFound].
func (e *CompilerNotFoundError) Code() Code { return ErrCodeCompilerNotFound }

// AmbiguousRequestError is returned when a compiler is given without the
// language it belongs to.
type AmbiguousRequestError struct {
	Compiler string
}

func (e *AmbiguousRequestError) Error() string {
	return fmt.Sprintf("compiler %q given without a language", e.Compiler)
}

// Code returns [ErrCodeAmbiguousRequest].
func (e *AmbiguousRequestError) Code() Code { return ErrCodeAmbiguousRequest }

// ErrClientClosed is the cause of a [TransportError] for a request issued
// on a closed client.
var ErrClientClosed = errors.New("client closed")

// TransportError wraps a failed HTTP exchange: a network failure, a
// non-2xx status, a timeout or a cancellation.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int   // 0 when no response was received
	Err        error // Underlying cause (optional for status failures)
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.URL, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Code classifies the failure. Cancellation and deadlines get their own
// codes so callers can tell them apart from remote failures.
func (e *TransportError) Code() Code {
	switch {
	case errors.Is(e.Err, ErrClientClosed):
		return ErrCodeClosed
	case errors.Is(e.Err, context.Canceled):
		return ErrCodeCanceled
	case errors.Is(e.Err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case e.StatusCode == http.StatusNotFound:
		return ErrCodeNotFound
	}
	var te interface{ Timeout() bool }
	if errors.As(e.Err, &te) && te.Timeout() {
		return ErrCodeTimeout
	}
	return ErrCodeNetwork
}
