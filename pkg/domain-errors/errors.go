// Package domainerrors defines the error taxonomy shared by all services.
//
// Services return these errors; the HTTP layer translates codes into status
// codes via httputil.WriteError. Stores never return domain errors directly,
// they return sentinel errors which services wrap here.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and callers.
type Code string

const (
	// CodeValidation covers malformed input and business-rule violations.
	CodeValidation Code = "validation_error"
	// CodeBadRequest covers requests the server cannot parse at all.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized covers missing or bad credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden covers authenticated callers lacking entitlement.
	CodeForbidden Code = "forbidden"
	// CodeNotFound covers missing entities.
	CodeNotFound Code = "not_found"
	// CodeConflict covers uniqueness violations: duplicate registration,
	// double vote, duplicate candidate tuple.
	CodeConflict Code = "conflict"
	// CodeUnavailable covers unreachable or failing external collaborators.
	CodeUnavailable Code = "service_unavailable"
	// CodeTimeout covers exhausted call budgets against collaborators.
	CodeTimeout Code = "timeout"
	// CodeInternal covers everything we do not want to explain to callers.
	CodeInternal Code = "internal_error"
)

// Error carries a taxonomy code, a caller-safe message and an optional cause.
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

func (e *Error) Unwrap() error { return e.Err }

// New builds a domain error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a taxonomy code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// CodeOf extracts the taxonomy code from err, defaulting to CodeInternal so
// unclassified failures never leak details.
func CodeOf(err error) Code {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the caller-safe message, empty for unclassified errors.
func MessageOf(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}

// HTTPStatus maps a taxonomy code to its transport status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return 400
	case CodeUnauthorized:
		return 401
	case CodeForbidden:
		return 403
	case CodeNotFound:
		return 404
	case CodeConflict:
		return 409
	case CodeUnavailable, CodeTimeout:
		return 503
	default:
		return 500
	}
}
