// Package apierr classifies request failures so a single responder can map
// them to HTTP status codes.
//
// Handlers never write error responses themselves; they return or pass an
// *Error (or any error, which is treated as a server error) to the
// features/errors responder.
package apierr

import (
	"errors"
	"net/http"
)

// Kind is the class of a failure.
type Kind int

const (
	KindServer Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindNotFound
	KindConflict
	KindTooLarge
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooLarge:
		return "too_large"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "server"
	}
}

// Error is a classified failure. Message is safe to show to the caller;
// Err, if set, is for the server log only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for e.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// ServerMessage is the only text a caller ever sees for a server error.
const ServerMessage = "Internal server error"

func Unauthenticated(msg string) *Error { return &Error{Kind: KindAuthentication, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindAuthorization, Message: msg} }
func Invalid(msg string) *Error         { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error        { return &Error{Kind: KindConflict, Message: msg} }
func TooLarge(msg string) *Error        { return &Error{Kind: KindTooLarge, Message: msg} }
func RateLimited(msg string) *Error     { return &Error{Kind: KindRateLimited, Message: msg} }

// Internal wraps err as a server error.
func Internal(err error) *Error {
	return &Error{Kind: KindServer, Message: ServerMessage, Err: err}
}

// From returns err as an *Error, classifying anything unknown as a server error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// Is reports whether err is an *Error of kind k.
func Is(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
