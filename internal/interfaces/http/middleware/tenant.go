package middleware

import (
	"net/http"
	"strings"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant and actor context keys
const (
	TenantIDKey     = "tenant_id"
	ActorIDKey      = "actor_id"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User-ID"
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled accepts X-Tenant-ID and X-User-ID when no JWT is present.
	// Only for development and trusted internal callers.
	HeaderEnabled bool
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	// Required rejects requests that resolve to no tenant
	Required bool
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		SkipPaths:     []string{"/health", "/api/v1/health"},
		Required:      true,
	}
}

// TenantMiddleware resolves the tenant and the acting user of the request.
// JWT claims take priority over headers.
func TenantMiddleware(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantRaw := GetJWTTenantID(c)
		actorRaw := GetJWTUserID(c)
		if tenantRaw == "" && cfg.HeaderEnabled {
			tenantRaw = c.GetHeader(TenantHeaderKey)
			actorRaw = c.GetHeader(UserHeaderKey)
		}

		if tenantRaw == "" {
			if cfg.Required {
				respondUnauthorized(c, "Tenant identification required")
				return
			}
			c.Next()
			return
		}

		tenantID, err := uuid.Parse(tenantRaw)
		if err != nil || tenantID == uuid.Nil {
			respondUnauthorized(c, "Invalid tenant ID format")
			return
		}
		c.Set(TenantIDKey, tenantID)
		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())

		if actorRaw != "" {
			actorID, err := uuid.Parse(actorRaw)
			if err != nil {
				respondUnauthorized(c, "Invalid user ID format")
				return
			}
			c.Set(ActorIDKey, actorID)
			ctx = logger.WithUserID(ctx, actorID.String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, GetRequestID(c),
	))
}

// GetTenantUUID returns the resolved tenant, or false if there is none
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	if v, ok := c.Get(TenantIDKey); ok {
		if id, ok := v.(uuid.UUID); ok && id != uuid.Nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// GetActorUUID returns the acting user, or uuid.Nil when anonymous
func GetActorUUID(c *gin.Context) uuid.UUID {
	if v, ok := c.Get(ActorIDKey); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
