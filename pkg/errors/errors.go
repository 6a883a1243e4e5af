package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Graph integrity errors
	ErrorTypeIntegrityViolation ErrorType = "INTEGRITY_VIOLATION"
	ErrorTypeInvalidReference   ErrorType = "INVALID_REFERENCE"

	// Workbench errors
	ErrorTypeValidation        ErrorType = "VALIDATION"
	ErrorTypeNotFound          ErrorType = "NOT_FOUND"
	ErrorTypeConflict          ErrorType = "CONFLICT"
	ErrorTypeEmptyCollection   ErrorType = "EMPTY_COLLECTION"
	ErrorTypePermissionDenied  ErrorType = "PERMISSION_DENIED"
	ErrorTypeOperationInFlight ErrorType = "OPERATION_IN_FLIGHT"
	ErrorTypeRateLimited       ErrorType = "RATE_LIMITED"

	// Session and transport errors
	ErrorTypeSessionExpired ErrorType = "SESSION_EXPIRED"
	ErrorTypeNetworkFailure ErrorType = "NETWORK_FAILURE"
	ErrorTypeInternal       ErrorType = "INTERNAL"
)

// AppError represents an application-specific error
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Code       string                 `json:"code,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
	RetryAfter time.Duration          `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds an error code
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithDetails adds error details
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{}, len(details))
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail adds a single error detail
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	return e.WithDetails(map[string]interface{}{key: value})
}

// WithRetryAfter tells the client when the request may be repeated
func (e *AppError) WithRetryAfter(d time.Duration) *AppError {
	e.RetryAfter = d
	return e
}

// WithCause wraps an underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// captureStackTrace captures the current stack trace
func captureStackTrace() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	stack := ""
	for {
		frame, more := frames.Next()
		stack += fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return stack
}

func newError(errType ErrorType, status int, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: status,
		StackTrace: captureStackTrace(),
	}
}

// Constructor functions for common error types

// NewIntegrityViolation reports a topology whose edges reference missing nodes.
// The operation that raised it must leave prior state untouched.
func NewIntegrityViolation(message string) *AppError {
	return newError(ErrorTypeIntegrityViolation, http.StatusUnprocessableEntity, message)
}

// NewInvalidReference reports an operation naming a node or edge id that does not exist
func NewInvalidReference(kind, id string) *AppError {
	return newError(ErrorTypeInvalidReference, http.StatusUnprocessableEntity,
		fmt.Sprintf("%s '%s' does not exist", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, fmt.Sprintf("%s not found", resource))
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *AppError {
	return newError(ErrorTypeConflict, http.StatusConflict, message)
}

// NewEmptyCollection reports that a source had nothing to offer.
// It is a user-facing notice, not a failure of the workbench.
func NewEmptyCollection(collection string) *AppError {
	return newError(ErrorTypeEmptyCollection, http.StatusNotFound,
		fmt.Sprintf("no %s available", collection))
}

// NewPermissionDenied creates a quota or feature gate rejection
func NewPermissionDenied(message string) *AppError {
	if message == "" {
		message = "permission denied"
	}
	return newError(ErrorTypePermissionDenied, http.StatusForbidden, message)
}

// NewOperationInFlight rejects re-invocation of an operation that has not resolved yet
func NewOperationInFlight(operation string) *AppError {
	return newError(ErrorTypeOperationInFlight, http.StatusConflict,
		fmt.Sprintf("operation '%s' is already in flight", operation)).
		WithDetail("operation", operation)
}

// NewRateLimited rejects a caller that sent too many requests
func NewRateLimited(message string) *AppError {
	return newError(ErrorTypeRateLimited, http.StatusTooManyRequests, message)
}

// NewSessionExpired creates an error for a bearer credential the backend rejected
func NewSessionExpired(message string) *AppError {
	if message == "" {
		message = "session expired"
	}
	return newError(ErrorTypeSessionExpired, http.StatusUnauthorized, message)
}

// NewNetworkFailure creates an error for a backend that rejected or never answered a request
func NewNetworkFailure(service string, err error) *AppError {
	return newError(ErrorTypeNetworkFailure, http.StatusBadGateway,
		fmt.Sprintf("request to '%s' failed", service)).
		WithDetail("service", service).
		WithCause(err)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, message)
}

// Helper functions

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

// IsIntegrityViolation checks if an error is an integrity violation
func IsIntegrityViolation(err error) bool {
	return IsType(err, ErrorTypeIntegrityViolation)
}

// IsInvalidReference checks if an error is an invalid reference error
func IsInvalidReference(err error) bool {
	return IsType(err, ErrorTypeInvalidReference)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsEmptyCollection checks if an error is an empty collection notice
func IsEmptyCollection(err error) bool {
	return IsType(err, ErrorTypeEmptyCollection)
}

// IsPermissionDenied checks if an error is a gate rejection
func IsPermissionDenied(err error) bool {
	return IsType(err, ErrorTypePermissionDenied)
}

// IsOperationInFlight checks if an error is an in-flight rejection
func IsOperationInFlight(err error) bool {
	return IsType(err, ErrorTypeOperationInFlight)
}

// IsSessionExpired checks if an error is a session expiry
func IsSessionExpired(err error) bool {
	return IsType(err, ErrorTypeSessionExpired)
}

// IsNetworkFailure checks if an error is a network failure
func IsNetworkFailure(err error) bool {
	return IsType(err, ErrorTypeNetworkFailure)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, add context to message
	if appErr := GetAppError(err); appErr != nil {
		appErr.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return appErr
	}

	// Otherwise create a new internal error
	return NewInternalError(message).WithCause(err)
}

// Wrapf wraps an error with formatted message
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
