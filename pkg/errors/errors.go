// Package errors provides structured error types for canvasrender.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, CLI and HTTP server
//   - Machine-readable error codes for programmatic handling
//   - Messages that name the offending node and field
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the renderer:
//   - INVALID_*, MISSING_FIELD, UNKNOWN_*: configuration errors in the scene
//   - LAYOUT_PENDING: a bounding box was queried before layout ran
//   - IMAGE_LOAD, FONT_LOAD, ENCODE, NETWORK: failures of external collaborators
//   - INTERNAL: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMissingField, "image %q: width and height are required without url", id)
//	if errors.Is(err, errors.ErrCodeMissingField) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeImageLoad, origErr, "load %s", src)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidScene     Code = "INVALID_SCENE"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidHighlight Code = "INVALID_HIGHLIGHT"
	ErrCodeInvalidPath      Code = "INVALID_PATH"
	ErrCodeMissingField     Code = "MISSING_FIELD"
	ErrCodeUnknownNode      Code = "UNKNOWN_NODE"
	ErrCodeUnknownCommand   Code = "UNKNOWN_COMMAND"

	// Precondition violations
	ErrCodeLayoutPending Code = "LAYOUT_PENDING"

	// External collaborator errors
	ErrCodeImageLoad Code = "IMAGE_LOAD"
	ErrCodeFontLoad  Code = "FONT_LOAD"
	ErrCodeEncode    Code = "ENCODE"
	ErrCodeNetwork   Code = "NETWORK_ERROR"
	ErrCodeNotFound  Code = "NOT_FOUND"

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

// IsConfiguration reports whether err is a scene configuration error, i.e. a
// problem the author of the scene description can fix.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidScene, ErrCodeInvalidInput, ErrCodeInvalidFormat,
		ErrCodeInvalidHighlight, ErrCodeInvalidPath, ErrCodeMissingField,
		ErrCodeUnknownNode, ErrCodeUnknownCommand:
		return true
	}
	return false
}
