package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/middleware"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRequestID(t *testing.T) {
	t.Run("from middleware", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set(middleware.RequestIDKey, "ctx-id")
		c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
		assert.Equal(t, "ctx-id", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.Header.Set(middleware.RequestIDHeader, "header-id")
		assert.Equal(t, "header-id", getRequestID(c))
	})
}

func TestGetTenantID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := getTenantID(c)
	assert.ErrorIs(t, err, errTenantMissing)

	tenantID := uuid.New()
	c.Set(middleware.TenantIDKey, tenantID)
	got, err := getTenantID(c)
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, "ERR_NOT_FOUND"},
		{"wrapped insufficient stock", fmt.Errorf("create: %w", shared.ErrInsufficientStock), http.StatusUnprocessableEntity, "ERR_INSUFFICIENT_STOCK"},
		{"overpayment", shared.ErrOverpayment, http.StatusUnprocessableEntity, "ERR_OVERPAYMENT"},
		{"duplicate request", shared.ErrDuplicateRequest, http.StatusConflict, "ERR_DUPLICATE_REQUEST"},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, "ERR_CONCURRENCY_CONFLICT"},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, "ERR_INVALID_INPUT"},
		{"unknown", fmt.Errorf("connection reset"), http.StatusInternalServerError, "ERR_INTERNAL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			r := gin.New()
			r.Use(middleware.RequestID())
			r.GET("/", func(c *gin.Context) { h.HandleError(c, tt.err) })

			w := testutil.PerformRequest(t, r, http.MethodGet, "/", nil, map[string]string{middleware.RequestIDHeader: "req-1"})
			assert.Equal(t, tt.status, w.Code)
			testutil.AssertErrorResponse(t, w, tt.code)
			errInfo := testutil.JSONResponse(t, w)["error"].(map[string]any)
			assert.Equal(t, "req-1", errInfo["request_id"])
		})
	}
}

func TestBaseHandler_ResponseHelpers(t *testing.T) {
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/created", func(c *gin.Context) { h.Created(c, gin.H{"id": "1"}) })
	r.GET("/empty", func(c *gin.Context) { h.NoContent(c) })
	r.GET("/page", func(c *gin.Context) { h.SuccessWithMeta(c, []int{1, 2}, 5, 2, 2) })

	w := testutil.PerformRequest(t, r, http.MethodGet, "/created", nil, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	testutil.AssertSuccessResponse(t, w)

	w = testutil.PerformRequest(t, r, http.MethodGet, "/empty", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = testutil.PerformRequest(t, r, http.MethodGet, "/page", nil, nil)
	meta := testutil.JSONResponse(t, w)["meta"].(map[string]any)
	assert.Equal(t, float64(5), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
}
