// Package errs defines the canonical error taxonomy the gateway uses to describe
// any failure to MCP clients, independent of the underlying cause.
package errs

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/client"
)

// Kind is one of the canonical error kinds enumerated by the specification.
type Kind string

const (
	InvalidArgument       Kind = "invalid-argument"
	NotFound              Kind = "not-found"
	Conflict              Kind = "conflict"
	Forbidden             Kind = "forbidden"
	Unauthenticated       Kind = "unauthenticated"
	UnsupportedCapability Kind = "unsupported-capability"
	Timeout               Kind = "timeout"
	Cancelled             Kind = "cancelled"
	UpstreamFailure       Kind = "upstream-failure"
	Unavailable           Kind = "unavailable"
	MethodNotFound        Kind = "method-not-found"
	Internal              Kind = "internal"
)

// FieldError describes a single schema-validation failure for one field.
type FieldError struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Error is the canonical error shape surfaced to MCP clients.
type Error struct {
	ErrKind Kind
	Msg     string
	Details []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrKind, e.Msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrKind, e.Msg)
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the canonical kind of the error, or Internal if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.ErrKind
	}
	return Internal
}

// New builds a canonical error of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{ErrKind: kind, Msg: msg}
}

// Wrap builds a canonical error of the given kind, preserving cause for logging/Unwrap.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{ErrKind: kind, Msg: msg, cause: cause}
}

// Invalid builds an invalid-argument error carrying field-level details.
func Invalid(msg string, details []FieldError) *Error {
	return &Error{ErrKind: InvalidArgument, Msg: msg, Details: details}
}

// FromDockerError classifies an error returned by the Docker Engine client into
// a canonical Kind. It never lets a raw transport error escape to the caller.
func FromDockerError(err error) *Error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return Wrap(Timeout, "docker call exceeded its deadline", err)
	}
	if errors.Is(err, context.Canceled) {
		return Wrap(Cancelled, "docker call was cancelled", err)
	}

	switch {
	case client.IsErrNotFound(err):
		return Wrap(NotFound, "no such docker resource", err)
	case client.IsErrConnectionFailed(err):
		return Wrap(Unavailable, "could not reach docker daemon", err)
	}

	if sc, ok := statusCodeOf(err); ok {
		switch {
		case sc == 404:
			return Wrap(NotFound, "no such docker resource", err)
		case sc == 409:
			return Wrap(Conflict, "docker resource conflict", err)
		case sc == 403:
			return Wrap(Forbidden, "docker daemon denied the operation", err)
		case sc >= 500:
			return Wrap(UpstreamFailure, "docker daemon returned a server error", err)
		}
	}

	return Wrap(UpstreamFailure, "docker operation failed", err)
}

// HTTPStatus maps a canonical Kind to a conventional HTTP status code. The
// authentication middleware does not use this mapping: it answers 403 for
// Unauthenticated and 401 for Forbidden (see auth.Middleware).
func HTTPStatus(kind Kind) int {
	switch kind {
	case InvalidArgument:
		return 400
	case Unauthenticated:
		return 401
	case Forbidden:
		return 403
	case NotFound, MethodNotFound:
		return 404
	case Conflict:
		return 409
	case Timeout:
		return 504
	case Cancelled:
		return 499
	case Unavailable:
		return 503
	case UnsupportedCapability:
		return 501
	case UpstreamFailure:
		return 502
	default:
		return 500
	}
}

// statusCodeOf extracts an HTTP-like status code from a docker client error, if any.
// The docker/docker client wraps transport errors in types implementing this
// interface for API-level failures.
func statusCodeOf(err error) (int, bool) {
	type statusCoder interface{ StatusCode() int }
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode(), true
	}
	return 0, false
}
