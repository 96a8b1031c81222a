package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation  ErrorType = "VALIDATION"
	ErrorTypeNotFound    ErrorType = "NOT_FOUND"
	ErrorTypeInternal    ErrorType = "INTERNAL"
	ErrorTypeTimeout     ErrorType = "TIMEOUT"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// Default user-facing messages. The public client is Italian.
const (
	userMessageValidation  = "Richiesta non valida"
	userMessageUnavailable = "Servizio momentaneamente non disponibile"
	userMessageInternal    = "Si è verificato un errore"
)

// AppError represents an application-specific error
type AppError struct {
	Type         ErrorType `json:"type"`
	Message      string    `json:"message"`
	UserMessage  string    `json:"userMessage"`
	DebugMessage string    `json:"debugMessage"`
	Code         string    `json:"code,omitempty"`
	Cause        error     `json:"-"`
	StackTrace   string    `json:"-"`
	HTTPStatus   int       `json:"-"`
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

// Constructor functions for common error types

// NewValidationError creates a validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:         ErrorTypeValidation,
		Message:      message,
		UserMessage:  userMessageValidation,
		DebugMessage: message,
		HTTPStatus:   http.StatusBadRequest,
		StackTrace:   captureStackTrace(),
	}
}

// NewNotFoundError creates a not found error carrying both messages of the
// public contract. The status is resolved by the ErrorHandler.
func NewNotFoundError(userMessage, debugMessage string) *AppError {
	return &AppError{
		Type:         ErrorTypeNotFound,
		Message:      debugMessage,
		UserMessage:  userMessage,
		DebugMessage: debugMessage,
		HTTPStatus:   http.StatusNotFound,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:         ErrorTypeInternal,
		Message:      message,
		UserMessage:  userMessageInternal,
		DebugMessage: message,
		HTTPStatus:   http.StatusInternalServerError,
		StackTrace:   captureStackTrace(),
	}
}

// NewTimeoutError creates a timeout error. A backend that does not answer
// in time is unavailable from the client's point of view.
func NewTimeoutError(operation string) *AppError {
	message := fmt.Sprintf("operation '%s' timed out", operation)
	return &AppError{
		Type:         ErrorTypeTimeout,
		Message:      message,
		UserMessage:  userMessageUnavailable,
		DebugMessage: message,
		HTTPStatus:   http.StatusServiceUnavailable,
		StackTrace:   captureStackTrace(),
	}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(service string) *AppError {
	message := fmt.Sprintf("service '%s' is unavailable", service)
	return &AppError{
		Type:         ErrorTypeUnavailable,
		Message:      message,
		UserMessage:  userMessageUnavailable,
		DebugMessage: message,
		HTTPStatus:   http.StatusServiceUnavailable,
		StackTrace:   captureStackTrace(),
	}
}

// FromBackendError converts a failed boundary call into an AppError.
// Deadline errors become timeouts, everything else unavailability.
func FromBackendError(service string, err error) *AppError {
	if appErr := GetAppError(err); appErr != nil {
		return appErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(service).WithCause(err)
	}
	return NewUnavailableError(service).WithCause(err)
}

// Helper functions

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

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

// IsUnavailable checks if an error means a backend could not serve the request
func IsUnavailable(err error) bool {
	return IsType(err, ErrorTypeUnavailable) || IsType(err, ErrorTypeTimeout)
}
