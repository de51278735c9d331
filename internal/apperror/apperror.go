// Package apperror defines the error kinds surfaced by services and their
// HTTP status mapping.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindForbidden
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	default:
		return "unexpected"
	}
}

type Error struct {
	Kind    Kind
	Msg     string
	Details []map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Kind == KindUnexpected {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Msg == "" && t.Kind == e.Kind
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrForbidden  = &Error{Kind: KindForbidden}
	ErrValidation = &Error{Kind: KindValidation}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Kind: KindForbidden, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func Unexpected(err error, msg string) *Error {
	return &Error{Kind: KindUnexpected, Msg: msg, Err: err}
}

// KindOf returns the kind of err; errors that are not *Error are Unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message is the short text shown to clients. Unexpected errors never leak
// their cause.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindUnexpected {
			return e.Msg
		}
		return e.Error()
	}
	return "internal error"
}

func DetailsOf(err error) []map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
