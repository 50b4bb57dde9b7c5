// Package apperrors defines the closed set of error kinds the workflow
// layer raises and the HTTP layer maps to status codes (see spec §7).
package apperrors

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorType is a closed enum of the error kinds listed in spec §7.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeInvalidState   ErrorType = "invalid_state"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeUnauthenticated ErrorType = "unauthenticated"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeRateLimit      ErrorType = "rate_limited"
	ErrorTypeDatabase       ErrorType = "database"
	ErrorTypeNetwork        ErrorType = "network"
	ErrorTypeInternal       ErrorType = "internal"
)

var statusCodes = map[ErrorType]int{
	ErrorTypeValidation:      http.StatusBadRequest,
	ErrorTypeInvalidState:    http.StatusBadRequest,
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeConflict:        http.StatusConflict,
	ErrorTypeUnauthenticated: http.StatusUnauthorized,
	ErrorTypeForbidden:       http.StatusForbidden,
	ErrorTypeRateLimit:       http.StatusTooManyRequests,
	ErrorTypeDatabase:        http.StatusInternalServerError,
	ErrorTypeNetwork:         http.StatusInternalServerError,
	ErrorTypeInternal:        http.StatusInternalServerError,
}

// AppError is the single error type workflows raise; it carries enough to
// log safely and to map to an HTTP response without re-deriving either.
type AppError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Details    string
	Cause      error
}

func New(t ErrorType, message string) *AppError {
	code, ok := statusCodes[t]
	if !ok {
		code = http.StatusInternalServerError
	}
	return &AppError{Type: t, Message: message, StatusCode: code}
}

func Wrap(cause error, t ErrorType, message string) *AppError {
	err := New(t, message)
	err.Cause = cause
	return err
}

func Wrapf(cause error, t ErrorType, format string, args ...interface{}) *AppError {
	return Wrap(cause, t, fmt.Sprintf(format, args...))
}

func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	return msg
}

func (e *AppError) Unwrap() error { return e.Cause }

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

func (e *AppError) WithDetailsf(format string, args ...interface{}) *AppError {
	e.Details = fmt.Sprintf(format, args...)
	return e
}

// Predefined constructors for the kinds used throughout the workflow layer.

func NewValidationError(message string) *AppError { return New(ErrorTypeValidation, message) }

func NewInvalidStateError(entity, currentState, attemptedAction string) *AppError {
	return New(ErrorTypeInvalidState, fmt.Sprintf("cannot %s %s in state %s", attemptedAction, entity, currentState))
}

func NewNotFoundError(entity string) *AppError {
	return New(ErrorTypeNotFound, fmt.Sprintf("%s not found", entity))
}

func NewConflictError(message string) *AppError { return New(ErrorTypeConflict, message) }

func NewDuplicateError(entity string) *AppError {
	return New(ErrorTypeConflict, fmt.Sprintf("%s already exists", entity))
}

func NewAuthError(message string) *AppError { return New(ErrorTypeUnauthenticated, message) }

func NewForbiddenError(message string) *AppError { return New(ErrorTypeForbidden, message) }

func NewRateLimitError(message string) *AppError { return New(ErrorTypeRateLimit, message) }

func NewDatabaseError(operation string, cause error) *AppError {
	return Wrap(cause, ErrorTypeDatabase, fmt.Sprintf("database operation failed: %s", operation))
}

// IsType reports whether err is an *AppError of the given type.
func IsType(err error, t ErrorType) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == t
}

// GetType returns the AppError's type, or ErrorTypeInternal for plain errors.
func GetType(err error) ErrorType {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// GetStatusCode returns the HTTP status an error should be surfaced as.
func GetStatusCode(err error) int {
	if appErr, ok := err.(*AppError); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ErrorMessages holds the localised, safe-for-client messages for error
// types whose underlying cause must never reach the response body.
var ErrorMessages = struct {
	ResourceNotFound       string
	AuthenticationFailed   string
	OperationTimeout       string
	RateLimitExceeded      string
	ConcurrentModification string
	InternalError          string
}{
	ResourceNotFound:       "The requested resource was not found",
	AuthenticationFailed:   "Authentication failed",
	OperationTimeout:       "The operation timed out",
	RateLimitExceeded:      "Too many requests, please try again later",
	ConcurrentModification: "The resource was modified concurrently, please retry",
	InternalError:          "An internal error occurred",
}

// SafeErrorMessage returns a message safe to show to an API client: it
// never leaks a database/network/internal Cause, but validation and
// invalid-state messages (which describe the caller's own input) pass
// through untouched.
func SafeErrorMessage(err error) string {
	appErr, ok := err.(*AppError)
	if !ok {
		return "An unexpected error occurred"
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeInvalidState:
		return appErr.Message
	case ErrorTypeNotFound:
		return ErrorMessages.ResourceNotFound
	case ErrorTypeUnauthenticated:
		return ErrorMessages.AuthenticationFailed
	case ErrorTypeForbidden:
		return appErr.Message
	case ErrorTypeRateLimit:
		return ErrorMessages.RateLimitExceeded
	case ErrorTypeConflict:
		return ErrorMessages.ConcurrentModification
	default:
		return ErrorMessages.InternalError
	}
}

// LogFields renders an error into structured fields suitable for a
// logger, without duplicating SafeErrorMessage's leak-prevention (logs
// are allowed to see the full cause).
func LogFields(err error) map[string]interface{} {
	fields := map[string]interface{}{"error": err.Error()}
	appErr, ok := err.(*AppError)
	if !ok {
		return fields
	}
	fields["error_type"] = string(appErr.Type)
	fields["status_code"] = appErr.StatusCode
	if appErr.Details != "" {
		fields["error_details"] = appErr.Details
	}
	if appErr.Cause != nil {
		fields["underlying_error"] = appErr.Cause.Error()
	}
	return fields
}

// Chain joins non-nil errors with " -> ", returning nil if none are given.
func Chain(errs ...error) error {
	var parts []string
	for _, err := range errs {
		if err != nil {
			parts = append(parts, err.Error())
		}
	}
	if len(parts) == 0 {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(parts, " -> "))
}
