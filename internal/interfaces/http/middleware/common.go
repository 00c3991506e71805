// Package middleware provides the HTTP middleware chain of the invoicing API.
package middleware

import (
	"strings"
	"time"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader is the header carrying the request ID in both directions
	RequestIDHeader = "X-Request-ID"
	// RequestIDKey is the gin context key of the request ID
	RequestIDKey = "request_id"
	// MaxRequestIDLength bounds client supplied request IDs
	MaxRequestIDLength = 128
)

// CORS builds the gin-contrib/cors middleware from the HTTP config.
// An empty origin list rejects every cross-origin request, "*" allows all.
func CORS(cfg config.HTTPConfig) gin.HandlerFunc {
	cc := cors.Config{
		AllowMethods:  cfg.CORSAllowMethods,
		AllowHeaders:  cfg.CORSAllowHeaders,
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	allowAll := false
	for _, o := range cfg.CORSAllowOrigins {
		if o == "*" {
			allowAll = true
			break
		}
	}

	switch {
	case allowAll:
		cc.AllowAllOrigins = true
	case len(cfg.CORSAllowOrigins) == 0:
		cc.AllowOriginFunc = func(string) bool { return false }
	default:
		cc.AllowOrigins = cfg.CORSAllowOrigins
		cc.AllowCredentials = true
	}

	return cors.New(cc)
}

// RequestID reuses a sane X-Request-ID header or generates one, and makes it
// available to handlers, response headers and context loggers.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// Secure sets security response headers
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Next()
	}
}
