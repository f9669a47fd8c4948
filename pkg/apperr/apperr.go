// Package apperr defines the typed errors surfaced by services and rendered by the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindPersistence
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence_failure"
	case KindUpstream:
		return "upstream_failure"
	default:
		return "internal"
	}
}

// StatusCode maps a kind onto the HTTP status the envelope carries.
func (k Kind) StatusCode() int {
	switch k {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure with a user-facing message.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, msg string, cause error, details []string) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause, Details: details}
}

func InvalidArgument(msg string, details ...string) *Error {
	return newError(KindInvalidArgument, msg, nil, details)
}

func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg, nil, nil) }

func Forbidden(msg string) *Error { return newError(KindForbidden, msg, nil, nil) }

func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil, nil) }

func Conflict(msg string, cause error) *Error { return newError(KindConflict, msg, cause, nil) }

// Persistence marks a failed store read or write.
func Persistence(cause error, msg string) *Error {
	return newError(KindPersistence, msg, cause, nil)
}

// Upstream marks a failed call to an external collaborator such as media storage.
func Upstream(cause error, msg string) *Error {
	return newError(KindUpstream, msg, cause, nil)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
