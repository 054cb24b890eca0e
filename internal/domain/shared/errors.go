package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorf creates a new domain error with a formatted message
func NewDomainErrorf(code, format string, args ...any) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error codes used across the domain
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeForbidden         = "FORBIDDEN"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDuplicateReview   = "DUPLICATE_REVIEW"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

// Common domain errors
var (
	ErrNotFound          = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidRequest    = NewDomainError(CodeInvalidRequest, "Invalid input provided")
	ErrForbidden         = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidTransition = NewDomainError(CodeInvalidTransition, "Operation not allowed in current state")
	ErrConflict          = NewDomainError(CodeConflict, "Resource was modified by another process")
	ErrInternal          = NewDomainError(CodeInternal, "An unexpected error occurred")
)
