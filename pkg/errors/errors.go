// Package errors provides structured error types for deprecated-checker.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the scheduler
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages that name the offending file, package or source
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes map onto the failure taxonomy of the checker:
//   - NOT_FOUND / FILE_NOT_FOUND: missing project path or manifest
//   - PARSE_ERROR: a manifest line that could not be tokenized (never fatal)
//   - CORRUPT_DATABASE: the persisted knowledge base could not be decoded
//   - COLLECTION_FAILED: every configured data source failed in one cycle
//   - UNSUPPORTED_FORMAT: an unknown report encoding was requested
//   - UPDATE_IN_PROGRESS: a refresh cycle is already running
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "project path %s does not exist", path)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing path
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCorruptDatabase, origErr, "decode %s", path)
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
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"

	// Parsing and knowledge base errors
	ErrCodeParse             Code = "PARSE_ERROR"
	ErrCodeCorruptDatabase   Code = "CORRUPT_DATABASE"
	ErrCodeUnsupportedFormat Code = "UNSUPPORTED_FORMAT"

	// Collection and refresh errors
	ErrCodeCollectionFailed Code = "COLLECTION_FAILED"
	ErrCodeUpdateInProgress Code = "UPDATE_IN_PROGRESS"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

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
		return e.Message
	}
	return err.Error()
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}

// SourceError records the failure of one named data source.
type SourceError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

// Unwrap returns the source's underlying failure.
func (e *SourceError) Unwrap() error { return e.Err }

// CollectionFailed builds a COLLECTION_FAILED error that lists every
// source failure. The joined failures are available through errors.As.
func CollectionFailed(failures []*SourceError) *Error {
	if len(failures) == 0 {
		return New(ErrCodeCollectionFailed, "no data sources enabled")
	}
	errs := make([]error, len(failures))
	names := make([]string, len(failures))
	for i, f := range failures {
		errs[i] = f
		names[i] = f.Source
	}
	return Wrap(ErrCodeCollectionFailed, errors.Join(errs...), "all %d data sources failed %v", len(failures), names)
}
