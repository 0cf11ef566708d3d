package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph store errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeValidation represents malformed input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// ErrorType reports the category. Promoted to every typed wrapper below.
func (e *BaseError) ErrorType() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Graph Errors

// ErrGraphUnreachable is returned when the graph store cannot be reached
type ErrGraphUnreachable struct {
	*BaseError
	Backend string
}

func NewGraphUnreachable(backend string, err error) *ErrGraphUnreachable {
	return &ErrGraphUnreachable{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph store unreachable: %s", backend), err),
		Backend:   backend,
	}
}

// ErrGraphStatementFailed is returned when a single graph statement fails
type ErrGraphStatementFailed struct {
	*BaseError
	Statement string
}

func NewGraphStatementFailed(statement string, err error) *ErrGraphStatementFailed {
	return &ErrGraphStatementFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("statement failed: %s", statement), err),
		Statement: statement,
	}
}

// Validation Errors

// ErrValidationFailed is returned when an input record or edge is malformed
type ErrValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewValidationFailed(field, reason string) *ErrValidationFailed {
	return &ErrValidationFailed{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// Helper functions

type typed interface {
	ErrorType() ErrorType
}

// IsErrorType checks if an error, or anything it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		var t typed
		if !stderrors.As(err, &t) {
			return false
		}
		if t.ErrorType() == errType {
			return true
		}
		// Keep walking below the matched error; a graph error may wrap a context error.
		u, ok := t.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// IsUnreachable reports whether err signals an unreachable graph store
func IsUnreachable(err error) bool {
	var target *ErrGraphUnreachable
	return stderrors.As(err, &target)
}

// IsRetryable checks if an error is worth retrying by the caller.
// Nothing in this module retries on its own.
func IsRetryable(err error) bool {
	if IsErrorType(err, ErrorTypeContext) || IsErrorType(err, ErrorTypeValidation) {
		return false
	}
	return IsUnreachable(err)
}
