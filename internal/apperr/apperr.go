// Package apperr defines the error taxonomy shared by the service and HTTP
// layers: validation, conflict, not-found, authorization, upstream-fetch and
// store failures, each carrying the HTTP status it maps to and a message that
// is safe to return to a client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindNotFound     Kind = "not_found"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUpstream     Kind = "upstream"
	KindStore        Kind = "store"
)

type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error // underlying cause, never shown to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, status int, message string) *Error {
	return &Error{Kind: kind, Status: status, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, http.StatusConflict, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message)
}

// Upstream reports a metadata-fetch failure. The status reflects the failure
// class (404 unresolvable, 408 timeout, 503 no response, or the remote code).
func Upstream(status int, message string) *Error {
	return New(KindUpstream, status, message)
}

// Store wraps a database failure. The cause stays server-side; clients only
// ever see the generic message.
func Store(err error) *Error {
	return &Error{
		Kind:    KindStore,
		Status:  http.StatusServiceUnavailable,
		Message: "database operation failed",
		Err:     err,
	}
}

// From extracts an *Error from err, or wraps err as an internal store error.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{
		Kind:    KindStore,
		Status:  http.StatusInternalServerError,
		Message: "something went wrong",
		Err:     err,
	}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
