package dto

import (
	"net/http"
	"strings"
)

// API error codes. Clients switch on these, so they never change once shipped.
const (
	ErrCodeInternal           = "ERR_INTERNAL"
	ErrCodeFeatureDisabled    = "ERR_FEATURE_DISABLED"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeBadRequest         = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput       = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeTokenExpired       = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid       = "ERR_TOKEN_INVALID"
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ERR_ACCOUNT_LOCKED"
	ErrCodeAccountInactive    = "ERR_ACCOUNT_INACTIVE"

	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists      = "ERR_ALREADY_EXISTS"
	ErrCodeRequestInProgress  = "ERR_REQUEST_IN_PROGRESS"
	ErrCodeInvalidState       = "ERR_INVALID_STATE"
	ErrCodeProductUnavailable = "ERR_PRODUCT_UNAVAILABLE"

	// returned by the AI gateway
	ErrCodePaymentRequired = "ERR_PAYMENT_REQUIRED"
	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeUpstream        = "ERR_UPSTREAM"
)

var statusByCode = map[string]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusNotImplemented,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeTokenExpired:       http.StatusUnauthorized,
	ErrCodeTokenInvalid:       http.StatusUnauthorized,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeAccountLocked:      http.StatusForbidden,
	ErrCodeAccountInactive:    http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeRequestInProgress:  http.StatusConflict,
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeProductUnavailable: http.StatusUnprocessableEntity,
	ErrCodePaymentRequired:    http.StatusPaymentRequired,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeUpstream:           http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for an API code. Unlisted ERR_INVALID_*
// codes are field-level failures (400) and *_NOT_FOUND codes are 404.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "ERR_INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// domainCodes translates shared.DomainError codes raised by the domain and
// application layers.
var domainCodes = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"INVALID_STATE":           ErrCodeInvalidState,
	"INVALID_TRANSITION":      ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"FORBIDDEN":               ErrCodeForbidden,
	"INVALID_CREDENTIALS":     ErrCodeInvalidCredentials,
	"ACCOUNT_LOCKED":          ErrCodeAccountLocked,
	"ACCOUNT_INACTIVE":        ErrCodeAccountInactive,
	"REQUEST_IN_PROGRESS":     ErrCodeRequestInProgress,
	"PRODUCT_UNAVAILABLE":     ErrCodeProductUnavailable,
	"PAYMENT_REQUIRED":        ErrCodePaymentRequired,
	"RATE_LIMITED":            ErrCodeRateLimited,
	"UPSTREAM_FAILURE":        ErrCodeUpstream,
	"DETECTION_FAILED":        ErrCodeUpstream,
	"FEATURE_DISABLED":        ErrCodeFeatureDisabled,
	"MAX_CONNECTIONS_REACHED": ErrCodeServiceUnavailable,
	"STORAGE_FAILURE":         ErrCodeInternal,
	"PERSISTENCE_FAILURE":     ErrCodeInternal,
	"RENDER_FAILED":           ErrCodeInternal,
	"TOKEN_ERROR":             ErrCodeInternal,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"VALIDATION_ERROR":        ErrCodeValidation,
	"BAD_REQUEST":             ErrCodeBadRequest,
	"ADDRESS_REQUIRED":        ErrCodeValidationRequired,
	"EMPTY_ORDER":             ErrCodeValidationRequired,
}

// NormalizeErrorCode converts a domain code to its API code. ERR_ codes pass
// through, and unlisted INVALID_* or *_NOT_FOUND codes keep their detail
// behind the ERR_ prefix.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodes[code]; ok {
		return mapped
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasPrefix(code, "INVALID_"), strings.HasSuffix(code, "_NOT_FOUND"):
		return "ERR_" + code
	}
	return code
}
