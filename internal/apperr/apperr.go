// Package apperr defines the closed set of error variants used across the
// service. Callers match on Kind rather than on concrete error types; the HTTP
// layer maps each kind to a status code in exactly one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind tags an error with its failure class.
type Kind string

const (
	KindStorage      Kind = "STORAGE"
	KindAI           Kind = "AI"
	KindBlockchain   Kind = "BLOCKCHAIN"
	KindExif         Kind = "EXIF"
	KindReverseImage Kind = "REVERSE_IMAGE"
	KindValidation   Kind = "VALIDATION"
	KindAuth         Kind = "AUTH"
	KindNotFound     Kind = "NOT_FOUND"
	KindRateLimited  Kind = "RATE_LIMITED"
)

// Error is the single error shape used across service boundaries.
type Error struct {
	Kind    Kind
	Service string
	Op      string
	Message string
	Context map[string]any
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s/%s: %s", e.Service, e.Op, e.Message)
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the error kind to the response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindStorage, KindAI, KindBlockchain, KindExif, KindReverseImage:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// New builds an Error without an underlying cause.
func New(kind Kind, service, op, message string) *Error {
	return &Error{Kind: kind, Service: service, Op: op, Message: message}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, service, op, message string, err error) *Error {
	return &Error{Kind: kind, Service: service, Op: op, Message: message, Err: err}
}

// With attaches structured context and returns the same error.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// FromError extracts an *Error from err's chain, or nil if there is none.
func FromError(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr := FromError(err)
	return appErr != nil && appErr.Kind == kind
}

// StatusOf returns the HTTP status for any error, defaulting to 500 for
// errors outside the apperr taxonomy.
func StatusOf(err error) int {
	if appErr := FromError(err); appErr != nil {
		return appErr.HTTPStatus()
	}
	return http.StatusInternalServerError
}
