// Package services orchestrates post collections: load, apply a workflow operation, save, publish.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/newsroom/pkg/persistence"
	"github.com/dukex/newsroom/pkg/schema"
	"github.com/dukex/newsroom/pkg/workflow"
)

var (
	// ErrInvalidRequest is a malformed request that never reached the workflow core (400).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAction is an unknown action name (400).
	ErrInvalidAction = errors.New("invalid action")
)

const (
	CodeValidation      = "validation_failed"
	CodeInvalidDocument = "invalid_document"
	CodeConflict        = "invalid_transition"
	CodeNotFound        = "not_found"
	CodeInternal        = "internal_error"
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should return HTTP 400. A stored collection that
// fails schema validation is a server fault, not a client one.
func IsValidationError(err error) bool {
	if errors.Is(err, persistence.ErrCorruptCollection) {
		return false
	}

	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidAction) ||
		errors.Is(err, workflow.ErrValidationFailed) ||
		errors.Is(err, persistence.ErrInvalidCollectionID) ||
		errors.Is(err, schema.ErrInvalidDocument)
}

// IsConflictError checks if an error is a refused transition that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, workflow.ErrInvalidTransition)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return errors.Is(err, workflow.ErrPostNotFound)
}

func codeFor(err error) string {
	switch {
	case IsNotFoundError(err):
		return CodeNotFound
	case IsConflictError(err):
		return CodeConflict
	case IsValidationError(err) && schema.IsInvalidDocument(err):
		return CodeInvalidDocument
	case IsValidationError(err):
		return CodeValidation
	default:
		return CodeInternal
	}
}

// ErrorCode returns the classification code carried by a ServiceError, or classifies err
// directly when it never went through the service layer.
func ErrorCode(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Code != "" {
		return serviceErr.Code
	}

	return codeFor(err)
}

// wrapError attaches the operation and a classification code to err.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}

	return &ServiceError{Op: op, Code: codeFor(err), Err: err}
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}
