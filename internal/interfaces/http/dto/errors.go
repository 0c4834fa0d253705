package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeInvalidTransition is used when a workflow transition is not allowed
	ErrCodeInvalidTransition = "ERR_INVALID_TRANSITION"
	// ErrCodeVerificationIncomplete is used when required verification checks fail
	ErrCodeVerificationIncomplete = "ERR_VERIFICATION_INCOMPLETE"
	// ErrCodeAllocationExceedsPayment is used when allocations exceed the payment amount
	ErrCodeAllocationExceedsPayment = "ERR_ALLOCATION_EXCEEDS_PAYMENT"
	// ErrCodeAllocationExceedsOutstanding is used when an allocation exceeds a sale's balance
	ErrCodeAllocationExceedsOutstanding = "ERR_ALLOCATION_EXCEEDS_OUTSTANDING"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:                 http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:            http.StatusUnprocessableEntity,
	ErrCodeVerificationIncomplete:       http.StatusUnprocessableEntity,
	ErrCodeAllocationExceedsPayment:     http.StatusUnprocessableEntity,
	ErrCodeAllocationExceedsOutstanding: http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:                 http.StatusUnprocessableEntity,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                      ErrCodeNotFound,
	"ALREADY_EXISTS":                 ErrCodeAlreadyExists,
	"INVALID_INPUT":                  ErrCodeInvalidInput,
	"INVALID_STATE":                  ErrCodeInvalidState,
	"CONCURRENT_MODIFICATION":        ErrCodeConcurrencyConflict,
	"INVALID_WORKFLOW_TRANSITION":    ErrCodeInvalidTransition,
	"VERIFICATION_INCOMPLETE":        ErrCodeVerificationIncomplete,
	"ALLOCATION_EXCEEDS_PAYMENT":     ErrCodeAllocationExceedsPayment,
	"ALLOCATION_EXCEEDS_OUTSTANDING": ErrCodeAllocationExceedsOutstanding,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Remaining INVALID_* codes are input validation failures; anything unknown
// passes through as-is and maps to an internal error status.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if strings.HasPrefix(code, "INVALID_") {
		return ErrCodeInvalidInput
	}
	return code
}
