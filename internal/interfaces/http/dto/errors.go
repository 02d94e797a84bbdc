package dto

import (
	"net/http"

	"github.com/nextpos/printing/internal/domain/credential"
	"github.com/nextpos/printing/internal/domain/receipt"
)

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeInvalidState = "INVALID_STATE"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidState: http.StatusConflict,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Receipt rendering
	receipt.ErrCodeInvalidConfiguration: http.StatusBadRequest,
	receipt.ErrCodeMissingRequiredField: http.StatusUnprocessableEntity,

	// Print bridge credentials: a missing key is an operator problem, not a
	// client one, so it reads as the service being unavailable
	credential.ErrCodeMissingCredential: http.StatusServiceUnavailable,
	credential.ErrCodeKeyLoadFailure:    http.StatusInternalServerError,
	credential.ErrCodeSigningFailure:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
