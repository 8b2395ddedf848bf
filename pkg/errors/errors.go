package errors

import (
	"fmt"
)

// ErrorType defines different categories of errors
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound ErrorType = "NOT_FOUND"
	ErrorTypeConflict ErrorType = "CONFLICT"
	ErrorTypeSchema ErrorType = "SCHEMA"
	ErrorTypeInvalidState ErrorType = "INVALID_STATE"
	ErrorTypeInternal ErrorType = "INTERNAL"
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// AppError is the custom error type for the application
type AppError struct {
	Type ErrorType
	Message string
	Field string // offending field name, set for ErrorTypeSchema
	Err error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field=%s)", msg, e.Field)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap allows errors.Is and errors.As to work
func (e *AppError) Unwrap() error {
	return e.Err
}

// Constructor functions for different error types

// NewValidationError creates a validation error
func NewValidationError(message string) error {
	return &AppError{
		Type: ErrorTypeValidation,
		Message: message,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) error {
	return &AppError{
		Type: ErrorTypeNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) error {
	return &AppError{
		Type: ErrorTypeConflict,
		Message: message,
	}
}

// NewSchemaError creates a catalogue schema error, naming the offending
// field per the catalogue's validation rules (missing description/premise/
// condition, penalty==1 && boost==1, forbidden binary extra fields).
func NewSchemaError(field, message string) error {
	return &AppError{
		Type: ErrorTypeSchema,
		Message: message,
		Field: field,
	}
}

// NewInvalidStateError creates an invalid-tree / invalid-configuration
// error (cycles, multiple roots, beam exhaustion).
func NewInvalidStateError(message string) error {
	return &AppError{
		Type: ErrorTypeInvalidState,
		Message: message,
	}
}

// NewInternalError creates an internal error
func NewInternalError(message string, err error) error {
	return &AppError{
		Type: ErrorTypeInternal,
		Message: message,
		Err: err,
	}
}

// NewUnavailableError creates an error for a temporarily unreachable
// external collaborator (e.g. the circuit breaker is open).
func NewUnavailableError(message string, err error) error {
	return &AppError{
		Type: ErrorTypeUnavailable,
		Message: message,
		Err: err,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	// If it's already an AppError, preserve the type
	if appErr, ok := err.(*AppError); ok {
		return &AppError{
			Type: appErr.Type,
			Message: fmt.Sprintf("%s: %s", message, appErr.Message),
			Field: appErr.Field,
			Err: appErr.Err,
		}
	}

	// Otherwise, create an internal error
	return &AppError{
		Type: ErrorTypeInternal,
		Message: message,
		Err: err,
	}
}

// Type checking functions

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeValidation
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeNotFound
}

// IsSchema checks if an error is a catalogue schema error
func IsSchema(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeSchema
}

// IsInvalidState checks if an error is an invalid-tree/invalid-configuration error
func IsInvalidState(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeInvalidState
}

// IsInternal checks if an error is an internal error
func IsInternal(err error) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Type == ErrorTypeInternal
}
