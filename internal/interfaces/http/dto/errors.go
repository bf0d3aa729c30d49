package dto

import (
	"net/http"
	"strings"
)

// API error codes. Transport and generic failures use the ERR_ prefix.
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput    = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeConflict         = "ERR_CONFLICT"
	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeDuplicateRequest = "ERR_DUPLICATE_REQUEST"
)

// Back office rule violations. Services raise them as domain errors and
// clients receive them unchanged.
const (
	CodeCustomerHasDebt   = "CUSTOMER_HAS_DEBT"
	CodeCustomerNotFound  = "CUSTOMER_NOT_FOUND"
	CodeDueDateRequired   = "DUE_DATE_REQUIRED"
	CodeInvalidDateRange  = "INVALID_DATE_RANGE"
	CodeImportEmpty       = "IMPORT_EMPTY"
	CodeImportInvalidFile = "IMPORT_INVALID_FILE"
	CodeStorageDisabled   = "STORAGE_DISABLED"
)

var statusByCode = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeAlreadyExists:    http.StatusConflict,
	ErrCodeConflict:         http.StatusConflict,
	ErrCodeDuplicateRequest: http.StatusConflict,
	ErrCodeInvalidState:     http.StatusUnprocessableEntity,

	CodeCustomerHasDebt: http.StatusConflict,
	// The order names a customer the account does not have
	CodeCustomerNotFound:  http.StatusUnprocessableEntity,
	CodeImportEmpty:       http.StatusUnprocessableEntity,
	CodeImportInvalidFile: http.StatusBadRequest,
	CodeStorageDisabled:   http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the status answered for code. Codes outside the
// table are classified by shape: INVALID_* and *_REQUIRED are 400,
// *_NOT_FOUND is 404, and the rest are 500.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"), strings.HasSuffix(code, "_REQUIRED"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// generic domain codes and the API code they are reported as
var apiCodes = map[string]string{
	"NOT_FOUND":        ErrCodeNotFound,
	"ALREADY_EXISTS":   ErrCodeAlreadyExists,
	"CONFLICT":         ErrCodeConflict,
	"INVALID_INPUT":    ErrCodeInvalidInput,
	"INVALID_STATE":    ErrCodeInvalidState,
	"UNAUTHORIZED":     ErrCodeUnauthorized,
	"FORBIDDEN":        ErrCodeForbidden,
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INTERNAL_ERROR":   ErrCodeInternal,
}

// NormalizeErrorCode maps the generic domain codes onto ERR_ codes and
// returns every other code unchanged.
func NormalizeErrorCode(code string) string {
	if api, ok := apiCodes[code]; ok {
		return api
	}
	return code
}
