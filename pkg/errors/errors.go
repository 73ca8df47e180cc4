// Package errors provides structured error handling with typed error codes.
//
// Codes map to the failure taxonomy of the backtest core: validation
// failures are reported per request and never abort sibling requests, and
// data availability failures come from the price providers.
package errors

import (
	"errors"
	"fmt"
)

type ErrorCode int

const (
	// ErrCodeUnknown is the catch-all for unclassified failures.
	ErrCodeUnknown ErrorCode = iota
	// ErrCodeValidation covers bad request fields and out-of-range or
	// unparsable strategy parameters.
	ErrCodeValidation
	// ErrCodeUnknownStrategy is raised when a strategy id is not in the
	// catalog.
	ErrCodeUnknownStrategy
	// ErrCodeDataUnavailable is raised when a provider cannot produce a
	// price series, or the series has zero trading days in range.
	ErrCodeDataUnavailable
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HasCode reports whether err or any error in its chain carries the code.
func HasCode(err error, code ErrorCode) bool {
	var target *Error
	if errors.As(err, &target) {
		return target.Code == code
	}

	return false
}

// GetCode returns the code of err, or ErrCodeUnknown when err carries none.
func GetCode(err error) ErrorCode {
	var target *Error
	if errors.As(err, &target) {
		return target.Code
	}

	return ErrCodeUnknown
}
