package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindStorage
	KindAuthorization
	KindNotFound
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
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

// Validation reports missing or malformed input. fields names the offending JSON fields.
func Validation(message string, fields ...string) *HTTPError {
	return &HTTPError{Code: http.StatusBadRequest, Kind: KindValidation, Message: message, Fields: fields}
}

func Conflict(message string) *HTTPError {
	return &HTTPError{Code: http.StatusConflict, Kind: KindConflict, Message: message}
}

// Storage wraps a failure of the underlying store. The cause is kept for logs only.
func Storage(err error) *HTTPError {
	return &HTTPError{Code: http.StatusInternalServerError, Kind: KindStorage, Message: "storage unavailable", Err: err}
}

func Forbidden(message string) *HTTPError {
	return &HTTPError{Code: http.StatusForbidden, Kind: KindAuthorization, Message: message}
}

func NotFound(resource string, err error) *HTTPError {
	return &HTTPError{Code: http.StatusNotFound, Kind: KindNotFound, Message: resource + " not found", Err: err}
}

// Helper for common errors
var (
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
)

// KindOf returns the Kind of the first HTTPError in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status for err, 500 when it carries none.
func StatusOf(err error) int {
	var he *HTTPError
	if stderrors.As(err, &he) && he.Code != 0 {
		return he.Code
	}
	return http.StatusInternalServerError
}
