// Package apperr provides machine-readable error codes for caller-facing
// failures and their HTTP status mapping.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unexpected internal error.
	CodeUnknown Code = "UNKNOWN"

	// CodeSessionNotFound indicates the referenced game session does not exist.
	CodeSessionNotFound Code = "SESSION_NOT_FOUND"
	// CodePlayerNotFound indicates the referenced player does not exist.
	CodePlayerNotFound Code = "PLAYER_NOT_FOUND"
	// CodeNotCurrentPlayer indicates a human move was submitted out of turn.
	CodeNotCurrentPlayer Code = "NOT_CURRENT_PLAYER"
	// CodeInvalidRequest indicates a malformed or incomplete request payload.
	CodeInvalidRequest Code = "INVALID_REQUEST"
	// CodeInvalidRetryBound indicates a negative retry bound was configured.
	CodeInvalidRetryBound Code = "INVALID_RETRY_BOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeSessionNotFound, CodePlayerNotFound:
		return http.StatusNotFound
	case CodeNotCurrentPlayer, CodeInvalidRequest, CodeInvalidRetryBound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error carrying a code and a caller-facing message.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.Err }

// New creates a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a domain error wrapping an underlying cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// GetCode extracts the code from any error. Returns CodeUnknown when the
// error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks whether the error carries the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}
