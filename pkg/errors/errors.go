package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeConflict indicates a conflict with existing data
	ErrorTypeConflict ErrorType = "CONFLICT"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypePoolExhausted indicates no database connection could be acquired
	// within the retry budget
	ErrorTypePoolExhausted ErrorType = "POOL_EXHAUSTED"

	// ErrorTypeStorage indicates a statement failed to build, execute or scan
	ErrorTypeStorage ErrorType = "STORAGE"

	// ErrorTypeNormalizationSkip marks a single malformed external record
	ErrorTypeNormalizationSkip ErrorType = "NORMALIZATION_SKIP"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewConflictError creates a new conflict error
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConflict,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewPoolExhaustedError creates a new pool exhaustion error
func NewPoolExhaustedError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypePoolExhausted,
		Message: message,
		Err:     err,
	}
}

// NewStorageError creates a new storage failure carrying the driver error
func NewStorageError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Message: message,
		Err:     err,
	}
}

// NewNormalizationSkip creates an error describing one skipped external record
func NewNormalizationSkip(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNormalizationSkip,
		Message: message,
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or an
// empty string when there is none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}
