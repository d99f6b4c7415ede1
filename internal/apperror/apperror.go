package apperror

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure categories the service can produce.
// The HTTP mapping lives in one place (serverutils.ErrorHandlerMiddleware);
// nothing else in the codebase carries raw status codes.
type Kind int

const (
	KindUnauthenticated Kind = iota
	KindBadRequest
	KindForbidden
	KindNotFound
	KindMethodNotAllowed
	KindUpstreamFailure
	KindUpstreamTimeout
	KindPersistence
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	case KindUpstreamFailure:
		return "upstream_failure"
	case KindUpstreamTimeout:
		return "upstream_timeout"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

// Error carries a caller-safe message plus the underlying cause.
// Message is what the client may see; Err is for the operator log only.
type Error struct {
	Kind           Kind
	Message        string
	UpstreamStatus int // only set for KindUpstreamFailure
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func MethodNotAllowed(message string) *Error {
	return &Error{Kind: KindMethodNotAllowed, Message: message}
}

func Upstream(status int, message string, err error) *Error {
	return &Error{Kind: KindUpstreamFailure, Message: message, UpstreamStatus: status, Err: err}
}

func UpstreamTimeout(err error) *Error {
	return &Error{Kind: KindUpstreamTimeout, Message: "The redaction service did not respond in time.", Err: err}
}

func Persistence(message string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// From normalizes any error into an *Error. Unrecognized errors become
// KindInternal so the boundary never leaks raw detail to the client.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An internal server error occurred processing the API request.", err)
}
