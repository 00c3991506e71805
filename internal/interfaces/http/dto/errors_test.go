package dto

import (
	"net/http"
	"strings"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeOverpayment, http.StatusUnprocessableEntity},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	t.Run("every domain code has an API code and a status", func(t *testing.T) {
		domainCodes := []string{
			shared.CodeNotFound,
			shared.CodeAlreadyExists,
			shared.CodeInvalidInput,
			shared.CodeConcurrencyConflict,
			shared.CodeUnauthorized,
			shared.CodeInvalidState,
			shared.CodeInsufficientStock,
			shared.CodeOverpayment,
			shared.CodeDuplicateRequest,
		}
		for _, code := range domainCodes {
			api := NormalizeErrorCode(code)
			assert.NotEqual(t, code, api, code)
			_, ok := ErrorCodeHTTPStatus[api]
			assert.True(t, ok, "%s maps to %s which has no status", code, api)
		}
	})

	t.Run("API and unknown codes pass through", func(t *testing.T) {
		assert.Equal(t, ErrCodeOverpayment, NormalizeErrorCode(ErrCodeOverpayment))
		assert.Equal(t, "CUSTOM_ERROR", NormalizeErrorCode("CUSTOM_ERROR"))
	})

	t.Run("invoice rejections", func(t *testing.T) {
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NormalizeErrorCode(shared.CodeInsufficientStock)))
		assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(NormalizeErrorCode(shared.CodeOverpayment)))
		assert.Equal(t, http.StatusConflict, GetHTTPStatus(NormalizeErrorCode(shared.CodeDuplicateRequest)))
	})
}

func TestErrorCodeFormat(t *testing.T) {
	for code := range ErrorCodeHTTPStatus {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
	for _, code := range LegacyErrorCodeMapping {
		assert.True(t, strings.HasPrefix(code, "ERR_"), code)
	}
}
