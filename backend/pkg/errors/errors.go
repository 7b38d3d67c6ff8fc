// Package errors defines the error taxonomy shared across the service.
package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeLLM represents completion endpoint errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeStore represents conversation store errors
	ErrorTypeStore ErrorType = "store"
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

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// LLM Errors

// NewLLMUnavailable wraps a failed completion call
func NewLLMUnavailable(err error) *BaseError {
	return NewBaseError(ErrorTypeLLM, "completion endpoint unavailable", err)
}

// Graph Errors

// NewGraphWriteFailed wraps a failed graph write; callers must assume a
// partial write, as nothing is rolled back.
func NewGraphWriteFailed(err error) *BaseError {
	return NewBaseError(ErrorTypeGraph, "graph write failed", err)
}

// NewGraphReadFailed wraps a failed graph read
func NewGraphReadFailed(err error) *BaseError {
	return NewBaseError(ErrorTypeGraph, "graph read failed", err)
}

// Store Errors

// NewStoreFailed wraps a failed conversation store operation
func NewStoreFailed(err error) *BaseError {
	return NewBaseError(ErrorTypeStore, "conversation store operation failed", err)
}
