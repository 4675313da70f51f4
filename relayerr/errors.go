// Package relayerr defines the error kinds a relay request can end in and
// how each one maps onto an HTTP response.
package relayerr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure by who has to act on it.
type Kind int

const (
	// KindValidation means the caller sent insufficient or invalid input.
	KindValidation Kind = iota
	// KindConfiguration means the server is missing a required secret.
	KindConfiguration
	// KindUpstream means a third-party service was unreachable or refused.
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Error is a typed, terminal request failure. Message is safe to show to a
// client; Err holds the underlying cause and is only ever logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error kind.
func (e *Error) Status() int {
	if e.Kind == KindValidation {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Configuration(msg string) *Error {
	return &Error{Kind: KindConfiguration, Message: msg}
}

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// InternalMessage is what clients see for failures that carry no typed error.
const InternalMessage = "internal server error"

// StatusOf reports the HTTP status for err. Untyped errors are 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return InternalMessage
}

// Is reports whether err is a relay error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
