// Package errors provides structured error types for texgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Structured details (offending id, shape kind, coordinates) for messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes name the failure class, not the call site:
//   - VERTEX_NOT_FOUND, DUPLICATE_VERTEX, EDGE_NOT_FOUND: graph table violations
//   - INVALID_*: input validation failures (basis, shape, style, scene, ...)
//   - IO_ERROR: the output sink failed
//   - INTERNAL_ERROR: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeVertexNotFound, "vertex %q not found", id).
//	    With("id", id)
//	if errors.Is(err, errors.ErrCodeVertexNotFound) {
//	    // Handle missing vertex
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write picture")
//
// An *Error also matches another *Error with the same code under the
// standard library's errors.Is, so packages can export code-only sentinels:
//
//	var ErrVertexNotFound = errors.Sentinel(errors.ErrCodeVertexNotFound)
//	stderrors.Is(err, ErrVertexNotFound) // true for any VERTEX_NOT_FOUND error
package errors

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Vertex table errors
	ErrCodeVertexNotFound  Code = "VERTEX_NOT_FOUND"
	ErrCodeDuplicateVertex Code = "DUPLICATE_VERTEX"
	ErrCodeEdgeNotFound    Code = "EDGE_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidBasis  Code = "INVALID_BASIS"
	ErrCodeInvalidShape  Code = "INVALID_SHAPE"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidScene  Code = "INVALID_SCENE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// State errors
	ErrCodeAlreadyConstructed Code = "ALREADY_CONSTRUCTED"
	ErrCodeLimitExceeded      Code = "LIMIT_EXCEEDED"
	ErrCodeTimeout            Code = "TIMEOUT"

	// Output errors
	ErrCodeIO Code = "IO_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code           // Machine-readable error code
	Message string         // Human-readable message
	Details map[string]any // Offending values (id, kind, coordinates)
	Cause   error          // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error carrying the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// With attaches a detail value and returns the receiver.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// KeyVals flattens Details into alternating key/value pairs sorted by key,
// suitable for structured loggers.
func (e *Error) KeyVals() []any {
	out := make([]any, 0, 2*len(e.Details))
	for _, k := range slices.Sorted(maps.Keys(e.Details)) {
		out = append(out, k, e.Details[k])
	}
	return out
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

// Sentinel returns a message-less *Error usable as an errors.Is target.
func Sentinel(code Code) *Error {
	return &Error{Code: code}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Code == code {
				return true
			}
			err = e.Cause
			continue
		}
		return false
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

// Details returns the structured details of the outermost *Error in the
// chain, or nil.
func Details(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message == "" {
			return string(e.Code)
		}
		return e.Message
	}
	return err.Error()
}
