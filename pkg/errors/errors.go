// Package errors provides structured error types for widgetshare.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code] so that coordinators can decide how to surface it: validation and
// missing-element failures become warnings, encoding and download failures
// become error notifications, and single-flight rejections are reported to
// the caller without any user-visible side effect.
//
// # Error Codes
//
// Codes follow a coarse naming convention:
//   - INVALID_*: input validation failures (formats, platforms, paths)
//   - *_NOT_FOUND: a required resource or element is missing
//   - *_ERROR: a collaborator or encoder failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "Data array is empty")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // warn, do not raise busy
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeEncoding, origErr, "encode %s", format)
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
	ErrCodeValidation      Code = "VALIDATION_ERROR"
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPlatform Code = "INVALID_PLATFORM"
	ErrCodeInvalidKind     Code = "INVALID_KIND"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeElementNotFound Code = "ELEMENT_NOT_FOUND"
	ErrCodeFileNotFound    Code = "FILE_NOT_FOUND"
	ErrCodeWidgetNotFound  Code = "WIDGET_NOT_FOUND"

	// Collaborator and encoder errors
	ErrCodeEncoding Code = "ENCODING_ERROR"
	ErrCodeDownload Code = "DOWNLOAD_ERROR"
	ErrCodeShare    Code = "SHARE_ERROR"

	// Flow errors
	ErrCodeNoArtifact        Code = "NO_ARTIFACT"
	ErrCodeAlreadyInProgress Code = "ALREADY_IN_PROGRESS"

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

// IsWarning reports whether err describes a precondition failure that should
// be surfaced as a warning rather than an error: validation failures and
// missing elements.
func IsWarning(err error) bool {
	switch GetCode(err) {
	case ErrCodeValidation, ErrCodeElementNotFound:
		return true
	}
	return false
}
