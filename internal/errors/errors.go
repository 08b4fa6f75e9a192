package errors

import (
	stderrors "errors"
	"fmt"
)

// Error codes
const (
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeInternal    = "INTERNAL_ERROR"
	ErrCodeBadRequest  = "BAD_REQUEST"
	ErrCodeConflict    = "CONFLICT"
	ErrCodeTransport   = "TRANSPORT"
	ErrCodeRateLimited = "RATE_LIMITED"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code      string // Error code (e.g., "NOT_FOUND", "TRANSPORT")
	Message   string // Human-readable error message
	Status    int    // HTTP status code
	Err       error  // Wrapped underlying error (optional)
	Retryable bool   // The caller may safely offer a retry
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for error wrapping support
func (e *AppError) Unwrap() error {
	return e.Err
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retry affordance.
func IsRetryable(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.Retryable
}

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  404,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  400,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  500,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

// NewConflictError creates a new CONFLICT error
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: message,
		Status:  409,
	}
}

// NewTransportError wraps a network failure talking to the puzzle service.
func NewTransportError(op string, err error) *AppError {
	return &AppError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("%s failed", op),
		Status:    502,
		Err:       err,
		Retryable: true,
	}
}

// NewRateLimitedError creates a new RATE_LIMITED error
func NewRateLimitedError() *AppError {
	return &AppError{
		Code:      ErrCodeRateLimited,
		Message:   "too many requests",
		Status:    429,
		Retryable: true,
	}
}
