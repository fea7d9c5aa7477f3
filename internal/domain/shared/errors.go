package shared

import "fmt"

// Error categories. Every DomainError belongs to exactly one category so callers
// can branch on the class of failure without knowing every specific code.
const (
	CategoryNotFound                   = "NOT_FOUND"
	CategoryConflict                   = "CONFLICT"
	CategoryInvalidInput               = "INVALID_INPUT"
	CategoryInvalidTransition          = "INVALID_TRANSITION"
	CategoryResourceContention         = "RESOURCE_CONTENTION"
	CategoryPartialFailureNotification = "PARTIAL_FAILURE_NOTIFICATION"
	CategoryPartialFailureLinkage      = "PARTIAL_FAILURE_LINKAGE"
	CategoryStorageUnavailable         = "STORAGE_UNAVAILABLE"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Message  string `json:"message"`
	cause    error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying infrastructure error, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches another DomainError by code, or by category when the target is a
// category sentinel (its code equals its category).
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if e.Code == t.Code {
		return true
	}
	return t.Code == t.Category && e.Category == t.Category
}

// WithCause returns a copy of the error carrying the given cause
func (e *DomainError) WithCause(cause error) *DomainError {
	cp := *e
	cp.cause = cause
	return &cp
}

// WithMessage returns a copy of the error with a more specific message
func (e *DomainError) WithMessage(format string, args ...any) *DomainError {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// NewDomainError creates a new domain error. The category defaults to the code.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Category: code,
		Message:  message,
	}
}

// NewCategorizedError creates a domain error with a specific code inside a category
func NewCategorizedError(category, code, message string) *DomainError {
	return &DomainError{
		Code:     code,
		Category: category,
		Message:  message,
	}
}

// Category sentinels
var (
	ErrNotFound                   = NewDomainError(CategoryNotFound, "Resource not found")
	ErrConflict                   = NewDomainError(CategoryConflict, "Resource conflicts with existing state")
	ErrInvalidInput               = NewDomainError(CategoryInvalidInput, "Invalid input provided")
	ErrInvalidTransition          = NewDomainError(CategoryInvalidTransition, "Status transition is not allowed")
	ErrResourceContention         = NewDomainError(CategoryResourceContention, "Resource is locked by another operation, retry later")
	ErrPartialFailureNotification = NewDomainError(CategoryPartialFailureNotification, "Change was saved but the notification could not be delivered")
	ErrPartialFailureLinkage      = NewDomainError(CategoryPartialFailureLinkage, "Document was saved but the relationship could not be created")
	ErrStorageUnavailable         = NewDomainError(CategoryStorageUnavailable, "Storage is unavailable")
)
