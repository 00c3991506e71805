package middleware

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

const (
	// IdempotencyKeyHeader lets clients retry a mutation safely
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyKeyCtx is the gin context key of the validated key
	IdempotencyKeyCtx = "idempotency_key"
	// MaxIdempotencyKeyLength bounds the key stored in Redis
	MaxIdempotencyKeyLength = 128
)

// IdempotencyKey validates the optional Idempotency-Key header. Deduplication
// itself happens in the service so that it covers the whole transaction.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength || strings.IndexFunc(key, unicode.IsSpace) >= 0 ||
			strings.IndexFunc(key, unicode.IsControl) >= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeValidationFormat,
				"Idempotency-Key must be at most 128 visible characters",
				GetRequestID(c),
			))
			return
		}
		c.Set(IdempotencyKeyCtx, key)
		c.Next()
	}
}

// GetIdempotencyKey returns the validated key, or "" when none was sent
func GetIdempotencyKey(c *gin.Context) string {
	return c.GetString(IdempotencyKeyCtx)
}
