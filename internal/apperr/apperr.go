// Package apperr holds the client-visible error classes shared by all handlers.
package apperr

import (
	"errors"
	"net/http"
)

type Code string

const (
	CodeValidation      Code = "validation"
	CodeNotFound        Code = "not_found"
	CodeConflict        Code = "conflict"
	CodeForbidden       Code = "forbidden"
	CodeUnauthenticated Code = "unauthenticated"
	CodeInternal        Code = "internal"
)

// HTTPStatus maps the code to the response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Code    Code
	Message string
	// Fields holds per-field validation details.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches the class sentinels (ErrNotFound, ErrConflict, ...) by code,
// and any other *Error by code and message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e.Code != t.Code {
		return false
	}
	if isClassSentinel(t) {
		return true
	}
	return e.Message == t.Message
}

func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
		Fields:  fields,
	}
}

// BadRequest turns a request parsing failure into a validation error.
func BadRequest(err error) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: err.Error(),
	}
}

func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

func Conflict(message string) *Error {
	return New(CodeConflict, message)
}

func Forbidden(message string) *Error {
	return New(CodeForbidden, message)
}

func Unauthenticated(message string) *Error {
	return New(CodeUnauthenticated, message)
}

// Sentinels usable with errors.Is.
var (
	ErrValidation      = New(CodeValidation, "validation failed")
	ErrNotFound        = New(CodeNotFound, "not found")
	ErrConflict        = New(CodeConflict, "conflict")
	ErrForbidden       = New(CodeForbidden, "forbidden")
	ErrUnauthenticated = New(CodeUnauthenticated, "unauthenticated")
)

func isClassSentinel(err *Error) bool {
	switch err {
	case ErrValidation, ErrNotFound, ErrConflict, ErrForbidden, ErrUnauthenticated:
		return true
	default:
		return false
	}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first *Error in the chain, CodeInternal otherwise.
func CodeOf(err error) Code {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return CodeInternal
}
