// Package domainerrors carries caller-actionable failures across layers.
//
// Services return *Error values with a Code; transport layers map codes to
// status codes without inspecting messages. Stores do not use this package,
// they return pkg/platform/sentinel errors which services translate.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for callers and transports.
type Code string

// Generic codes.
const (
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Registry codes.
const (
	CodeClaimed           Code = "claimed"
	CodeTokenNameInvalid  Code = "token_name_invalid"
	CodeCycleDetected     Code = "cycle_detected"
	CodeTokenCapExceeded  Code = "token_cap_exceeded"
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeParentNotFound    Code = "parent_not_found"
	CodeMissingParent     Code = "missing_parent"
	CodeNoPrimaryAlias    Code = "no_primary_alias"
	CodeInvalidPGPKey     Code = "invalid_pgp_key"
	CodeNoLinksPermitted  Code = "no_links_permitted"
)

// Error is a coded domain failure. Err keeps the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) error {
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is reports whether the outermost domain error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the outermost domain code, or CodeInternal for foreign errors.
func GetCode(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// Message returns the caller-facing message of the outermost domain error.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
