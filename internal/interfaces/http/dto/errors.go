package dto

import (
	"net/http"

	"github.com/profitmap/docflow/internal/domain/shared"
)

// Transport error codes. Domain errors keep their own codes (DOCUMENT_NOT_FOUND,
// SAME_DOCUMENT, ...) and are mapped to a status through their category.
const (
	ErrCodeInternal        = "ERR_INTERNAL"
	ErrCodeBadRequest      = "ERR_BAD_REQUEST"
	ErrCodeValidation      = "ERR_VALIDATION"
	ErrCodeInvalidJSON     = "ERR_INVALID_JSON"
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps transport codes and domain codes that need a status
// other than their category's.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	"NOT_AN_OFFER": http.StatusUnprocessableEntity,
}

// CategoryHTTPStatus maps domain error categories to HTTP status codes
var CategoryHTTPStatus = map[string]int{
	shared.CategoryNotFound:                   http.StatusNotFound,
	shared.CategoryConflict:                   http.StatusConflict,
	shared.CategoryInvalidInput:               http.StatusBadRequest,
	shared.CategoryInvalidTransition:          http.StatusUnprocessableEntity,
	shared.CategoryResourceContention:         http.StatusServiceUnavailable,
	shared.CategoryPartialFailureNotification: http.StatusMultiStatus,
	shared.CategoryPartialFailureLinkage:      http.StatusMultiStatus,
	shared.CategoryStorageUnavailable:         http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status for an error code and its category.
// An explicit code mapping wins over the category; unknown errors are 500.
func GetHTTPStatus(code, category string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if status, ok := CategoryHTTPStatus[category]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsPartialFailure reports whether the category means the change was saved
// but a follow-up step failed
func IsPartialFailure(category string) bool {
	return category == shared.CategoryPartialFailureNotification ||
		category == shared.CategoryPartialFailureLinkage
}
