package common

import "net/http"

// AppError attaches a stable machine code and an HTTP status to a failure so
// handlers can map service errors onto the response envelope without string
// matching. Details, when set, is echoed verbatim into the envelope.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface, preferring the wrapped cause.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError flags a rejected cart payload.
func ValidationError(message string, err error) *AppError {
	return &AppError{Code: "VALIDATION", Message: message, HTTPStatus: http.StatusBadRequest, Err: err}
}

// InternalError wraps an unexpected pricing failure.
func InternalError(message string, err error) *AppError {
	return &AppError{Code: "INTERNAL", Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}
