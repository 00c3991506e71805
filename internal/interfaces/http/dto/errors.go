package dto

import (
	"net/http"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
)

// API error codes. Domain codes are mapped onto these by NormalizeErrorCode.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeBadRequest       = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput     = "ERR_INVALID_INPUT"
	ErrCodeValidation       = "ERR_VALIDATION"
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT" // malformed path or query value
	ErrCodeRequestTooLarge  = "ERR_REQUEST_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"

	// Invoice and stock rules
	ErrCodeInvalidState      = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
	ErrCodeOverpayment       = "ERR_OVERPAYMENT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeValidation:       http.StatusBadRequest,
	ErrCodeValidationFormat: http.StatusBadRequest,
	ErrCodeRequestTooLarge:  http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// A stock or payment rule failed: the request was well formed but cannot
	// be applied to the current state.
	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,
	ErrCodeOverpayment:       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to API error codes
var LegacyErrorCodeMapping = map[string]string{
	shared.CodeNotFound:            ErrCodeNotFound,
	shared.CodeAlreadyExists:       ErrCodeAlreadyExists,
	shared.CodeInvalidInput:        ErrCodeInvalidInput,
	shared.CodeInvalidState:        ErrCodeInvalidState,
	shared.CodeUnauthorized:        ErrCodeUnauthorized,
	shared.CodeConcurrencyConflict: ErrCodeConcurrencyConflict,
	shared.CodeInsufficientStock:   ErrCodeInsufficientStock,
	shared.CodeOverpayment:         ErrCodeOverpayment,
	shared.CodeDuplicateRequest:    ErrCodeDuplicateRequest,
	"VALIDATION_ERROR":             ErrCodeValidation,
	"BAD_REQUEST":                  ErrCodeBadRequest,
	"INTERNAL_ERROR":               ErrCodeInternal,
}

// NormalizeErrorCode converts a domain code to its API code. Codes already in
// API form, and unknown codes, are returned unchanged.
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
