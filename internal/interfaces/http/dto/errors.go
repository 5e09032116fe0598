package dto

import (
	"net/http"
	"strings"
)

// Error codes produced by the HTTP layer itself. Domain errors keep the code
// they were raised with.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeValidation = "VALIDATION_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"

	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "INVALID_TOKEN"
)

// Resource error codes
const (
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeInvalidState         = "INVALID_STATE"
	ErrCodeInsufficientStock    = "INSUFFICIENT_STOCK"
	ErrCodeInsufficientPayment  = "INSUFFICIENT_PAYMENT"
	ErrCodeSessionNotOpen       = "SESSION_NOT_OPEN"
	ErrCodeInvalidStatusChange  = "INVALID_STATUS_TRANSITION"
	ErrCodeMissingTenant        = "MISSING_TENANT"
	ErrCodeMissingIdempotentKey = "MISSING_IDEMPOTENCY_KEY"
)

// ErrCodeRateLimited is used when rate limit is exceeded
const ErrCodeRateLimited = "RATE_LIMITED"

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and business rules -> 400
	ErrCodeValidation:           http.StatusBadRequest,
	ErrCodeBadRequest:           http.StatusBadRequest,
	ErrCodeInvalidInput:         http.StatusBadRequest,
	ErrCodeInvalidState:         http.StatusBadRequest,
	ErrCodeInsufficientStock:    http.StatusBadRequest,
	ErrCodeInsufficientPayment:  http.StatusBadRequest,
	ErrCodeSessionNotOpen:       http.StatusBadRequest,
	ErrCodeInvalidStatusChange:  http.StatusBadRequest,
	ErrCodeMissingTenant:        http.StatusBadRequest,
	ErrCodeMissingIdempotentKey: http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resources
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// DomainErrorStatus returns the status for a code raised by the domain.
// Codes outside the table are rule violations (400), except the
// *_NOT_FOUND family.
func DomainErrorStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_NOT_FOUND") {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
