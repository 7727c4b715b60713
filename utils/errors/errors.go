package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details string `json:"details,omitempty"`
	cause   error
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeUploadTimeout   = "UPLOAD_TIMEOUT"
	CodeUpstreamNetwork = "UPSTREAM_NETWORK_ERROR"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

var (
	ErrUnauthorized = NewAPIError(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrInternal     = NewAPIError(CodeInternal, "Internal server error", http.StatusInternalServerError)
)

func Validation(message string, details ...string) *APIError {
	return NewAPIError(CodeValidation, message, http.StatusBadRequest, details...)
}

func Unauthorized(message string) *APIError {
	return NewAPIError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *APIError {
	return NewAPIError(CodeForbidden, message, http.StatusForbidden)
}

func NotFound(message string) *APIError {
	return NewAPIError(CodeNotFound, message, http.StatusNotFound)
}

func UploadTimeout(cause error) *APIError {
	e := NewAPIError(CodeUploadTimeout, "File upload timed out. Please try again.", http.StatusRequestTimeout)
	e.cause = cause
	return e
}

func UpstreamNetwork(cause error) *APIError {
	e := NewAPIError(CodeUpstreamNetwork, "Network/DNS error while contacting storage provider.", http.StatusBadGateway)
	e.cause = cause
	return e
}

// Internal keeps the cause for logging; Details stays empty so it never reaches the client.
func Internal(message string, cause error) *APIError {
	e := NewAPIError(CodeInternal, message, http.StatusInternalServerError)
	e.cause = cause
	return e
}

func Wrap(err error, code, message string, status int) *APIError {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}
	e := NewAPIError(code, message, status)
	e.cause = err
	return e
}

// As extracts the *APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := stderrors.As(err, &apiErr)
	return apiErr, ok
}
