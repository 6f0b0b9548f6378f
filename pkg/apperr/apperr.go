package apperr

import (
	"errors"
	"fmt"
)

// Code classifies application failures into the categories the API exposes.
type Code int

const (
	CodeInternal Code = iota
	CodeUnauthenticated
	CodeForbidden
	CodeTenantRequired
	CodeNotFound
	CodeValidation
	CodeConflict
	CodeBadRequest
)

// String returns the label used in logs.
func (c Code) String() string {
	switch c {
	case CodeUnauthenticated:
		return "UNAUTHENTICATED"
	case CodeForbidden:
		return "FORBIDDEN"
	case CodeTenantRequired:
		return "TENANT_REQUIRED"
	case CodeNotFound:
		return "NOT_FOUND"
	case CodeValidation:
		return "VALIDATION_FAILED"
	case CodeConflict:
		return "CONFLICT"
	case CodeBadRequest:
		return "BAD_REQUEST"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus maps a code to the response status the API contract specifies.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeUnauthenticated:
		return 401
	case CodeForbidden:
		return 403
	case CodeTenantRequired:
		return 400
	case CodeNotFound:
		return 404
	case CodeValidation:
		return 422
	case CodeConflict:
		return 409
	case CodeBadRequest:
		return 400
	default:
		return 500
	}
}

// Error is the failure type every service returns. Fields is only set for
// validation failures and carries per-field messages.
type Error struct {
	Code    Code
	Message string
	Fields  map[string]string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func Unauthenticated(message string) *Error {
	return &Error{Code: CodeUnauthenticated, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func TenantRequired(message string) *Error {
	return &Error{Code: CodeTenantRequired, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// BadRequest is for semantic preconditions that are neither validation nor
// tenancy failures, e.g. registering a second organization.
func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Message: fmt.Sprintf(format, args...)}
}

func Validation(fields map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: "Validation failed", Fields: fields}
}

func Internal(message string, cause error) *Error {
	return &Error{Code: CodeInternal, Message: message, Cause: cause}
}

// From normalizes any error into an *Error, wrapping unknown failures as Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}
