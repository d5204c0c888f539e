package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Wrap attaches a status code and a client-safe message to err.
func Wrap(err error, code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message, Err: err}
}

// Helpers for common errors
var (
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrNotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrConflict     = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
)

// Status returns the status code carried by err, or 500.
func Status(err error) int {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr.Code
	}
	return http.StatusInternalServerError
}

// Write sends err as a JSON body. Errors that are not an *HTTPError are
// reported as a generic internal error.
func Write(w http.ResponseWriter, err error) {
	code := Status(err)
	msg := http.StatusText(http.StatusInternalServerError)
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		msg = httpErr.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
