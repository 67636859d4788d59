// Package domainerrors provides coded errors for the service layer.
//
// Stores and infrastructure return sentinel errors (pkg/platform/sentinel);
// services wrap them into coded errors so transports can map them to a
// response without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and transports.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeValidation         Code = "validation"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeUpstreamClient     Code = "upstream_client_error"
	CodeUnavailable        Code = "unavailable"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
	CodeInvariantViolation Code = "invariant_violation"
)

// Error carries a code, a caller-safe message, and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. If err is already
// coded, the new code and message take precedence but the chain is preserved.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code Code) bool {
	var coded *Error
	if !errors.As(err, &coded) {
		return false
	}
	if coded.Code == code {
		return true
	}
	return HasCode(coded.cause, code)
}

// CodeOf returns the outermost code in the chain, or CodeInternal when the
// error is not coded.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return CodeInternal
}

// MessageOf returns the outermost caller-safe message, or empty for uncoded
// errors so transports never leak internals.
func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return ""
}

// Is delegates to errors.Is; exported so call sites can stay on one import.
func Is(err, target error) bool { return errors.Is(err, target) }
