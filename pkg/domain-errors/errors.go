// Package domainerrors carries typed error codes from services to transport.
//
// Services return *Error values; the HTTP layer maps the Code onto a status
// with ToHTTPStatus. Stores should not construct these directly; they return
// sentinel errors which services translate.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure independent of transport.
type Code string

const (
	CodeBadRequest           Code = "bad_request"
	CodeValidation           Code = "validation_error"
	CodeUnauthorized         Code = "unauthorized"
	CodeForbidden            Code = "forbidden"
	CodeNotFound             Code = "not_found"
	CodeConflict             Code = "conflict"
	CodeDimensionMismatch    Code = "dimension_mismatch"
	CodeDuplicateIdentity    Code = "duplicate_identity"
	CodeDuplicateEvent       Code = "duplicate_event"
	CodeNoMatch              Code = "no_match"
	CodeConsistencyViolation Code = "consistency_violation"
	CodeTimeout              Code = "timeout"
	CodeUnavailable          Code = "unavailable"
	CodeInternal             Code = "internal_error"
)

// Error is a domain error with a stable code and a caller-facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

// New constructs an Error without an underlying cause.
func New(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

// Wrap constructs an Error that keeps err reachable through errors.Unwrap.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on code and message so tests can assert with
// require.ErrorIs(err, New(code, msg)).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	var de *Error
	for err != nil {
		if errors.As(err, &de) {
			if de.Code == code {
				return true
			}
			err = de.Err
			continue
		}
		return false
	}
	return false
}

// CodeOf returns the outermost domain code in err's chain, or CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code onto the HTTP status the transport should use.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeDimensionMismatch, CodeDuplicateIdentity:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeNoMatch, CodeConsistencyViolation:
		return http.StatusNotFound
	case CodeConflict, CodeDuplicateEvent:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
