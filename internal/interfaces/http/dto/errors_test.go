package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeAccountLocked, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeRequestInProgress, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeProductUnavailable, http.StatusUnprocessableEntity},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodePaymentRequired, http.StatusPaymentRequired},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeUpstream, http.StatusInternalServerError},
		{ErrCodeFeatureDisabled, http.StatusNotImplemented},
		{ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		// Field-level codes fall back by prefix
		{"ERR_INVALID_PHONE", http.StatusBadRequest},
		{"ERR_STORE_NOT_FOUND", http.StatusNotFound},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"UNAUTHORIZED", ErrCodeUnauthorized},
		{"INVALID_CREDENTIALS", ErrCodeInvalidCredentials},
		{"PAYMENT_REQUIRED", ErrCodePaymentRequired},
		{"RATE_LIMITED", ErrCodeRateLimited},
		{"DETECTION_FAILED", ErrCodeUpstream},
		{"PERSISTENCE_FAILURE", ErrCodeInternal},
		{"MAX_CONNECTIONS_REACHED", ErrCodeServiceUnavailable},
		{"EMPTY_ORDER", ErrCodeValidationRequired},
		{"INVALID_DELIVERY_MODE", "ERR_INVALID_DELIVERY_MODE"},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestDomainCodesResolveToClientStatuses(t *testing.T) {
	tests := map[string]int{
		"INVALID_QUANTITY":    http.StatusBadRequest,
		"NOT_FOUND":           http.StatusNotFound,
		"PAYMENT_REQUIRED":    http.StatusPaymentRequired,
		"RATE_LIMITED":        http.StatusTooManyRequests,
		"UPSTREAM_FAILURE":    http.StatusInternalServerError,
		"REQUEST_IN_PROGRESS": http.StatusConflict,
		"ACCOUNT_INACTIVE":    http.StatusForbidden,
	}
	for code, status := range tests {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, status, GetHTTPStatus(NormalizeErrorCode(code)))
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Store not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Store not found", resp.Error.Message)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "customer_phone", Message: "customer_phone is required"},
		{Field: "items", Message: "items must contain at least 1 item"},
	}

	resp := NewValidationErrorResponse("Request validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "customer_phone", resp.Error.Details[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponse(ErrCodeRateLimited, "Too many requests")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	assert.JSONEq(t, `{"success":false,"error":{"code":"ERR_RATE_LIMITED","message":"Too many requests"}}`, string(data))
}

func TestNewSuccessResponseWithMetaPagination(t *testing.T) {
	tests := []struct {
		total         int64
		pageSize      int
		expectedPages int
		expectedSize  int
	}{
		{100, 10, 10, 10},
		{101, 10, 11, 10},
		{0, 10, 0, 10},
		{9, 10, 1, 10},
		{100, 0, 5, 20},
		{100, -1, 5, 20},
	}

	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta(nil, tt.total, 1, tt.pageSize)
		assert.True(t, resp.Success)
		assert.Equal(t, tt.expectedPages, resp.Meta.TotalPages)
		assert.Equal(t, tt.expectedSize, resp.Meta.PageSize)
	}
}

func TestProductImportRequest_Mode(t *testing.T) {
	assert.Equal(t, "skip", ProductImportRequest{}.Mode())
	assert.Equal(t, "update", ProductImportRequest{ConflictMode: "update"}.Mode())
}
