package shared

import "errors"

// DomainError represents a domain-level error.
// Code is mapped to an HTTP status by the interfaces layer.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so wrapped sentinels compare equal
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound                = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists           = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput            = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict     = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another request")
	ErrUnauthorized            = NewDomainError("UNAUTHORIZED", "Authentication required")
	ErrForbidden               = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState            = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientStock       = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientPayment     = NewDomainError("INSUFFICIENT_PAYMENT", "Paid amount is less than the order total")
	ErrDuplicateRequest        = NewDomainError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
	ErrWarehouseNotFound       = NewDomainError("WAREHOUSE_NOT_FOUND", "Warehouse not found")
	ErrSessionNotOpen          = NewDomainError("SESSION_NOT_OPEN", "POS session is not open")
	ErrInvalidStatusTransition = NewDomainError("INVALID_STATUS_TRANSITION", "Status transition is not allowed")
)

// IsNotFound reports whether err is, or wraps, a not-found domain error
func IsNotFound(err error) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == ErrNotFound.Code || de.Code == ErrWarehouseNotFound.Code
	}
	return false
}
