// Package domain defines the error kinds shared by the sync engines and the
// HTTP layer. Engines return these instead of raw repository errors so that
// handlers can map outcomes to statuses without inspecting SQL sentinels.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation covers malformed or unknown input.
	KindValidation
	// KindNotFound covers lookups of devices, tokens or students that do not exist.
	KindNotFound
	// KindConflict covers illegal state transitions and violated limits.
	KindConflict
	// KindCrypto covers certificate issuance and encryption failures. These are
	// fatal to the single operation and never partially applied.
	KindCrypto
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindCrypto:
		return "crypto_failure"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	wrapped error
}

func (e *Error) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.wrapped)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Crypto(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindCrypto, Message: fmt.Sprintf(format, args...), wrapped: err}
}

// KindOf extracts the kind from anywhere in the error chain, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// HTTPStatus maps an error to the status code handlers should respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
