// Package errs defines the typed failures raised by the geometry core.
//
// Callers map codes to their own transport: the CLI turns
// CodeInvalidMarkerData into a client error exit status and everything else
// into a server-side failure.
package errs

import (
	"errors"
	"fmt"
)

// Code is a machine-readable failure class.
type Code string

const (
	// CodeDataUnavailable means the boundary dataset is missing or unreadable.
	CodeDataUnavailable Code = "DATA_UNAVAILABLE"
	// CodeInvalidMarkerData means caller supplied marker input is malformed.
	CodeInvalidMarkerData Code = "INVALID_MARKER_DATA"
	// CodeProjection means a CRS transform failed.
	CodeProjection Code = "PROJECTION_ERROR"
)

// Reason narrows an InvalidMarkerData failure.
type Reason string

const (
	ReasonNotRecords   Reason = "not_records"
	ReasonEmpty        Reason = "empty"
	ReasonMissingField Reason = "missing_field"
	ReasonInvalidValue Reason = "invalid_value"
)

// Error is a coded failure with an optional cause.
type Error struct {
	Code    Code
	Reason  Reason // set for CodeInvalidMarkerData
	Field   string // offending field, if any
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around an existing cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// InvalidMarker creates an InvalidMarkerData error with a reason and field.
func InvalidMarker(reason Reason, field string, format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvalidMarkerData,
		Reason:  reason,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code of err, or "" for foreign errors.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
