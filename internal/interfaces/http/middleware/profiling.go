package middleware

import (
	"context"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling tags profiler samples taken while a request runs with its route
// pattern, method and tenant. It must run after TenantMiddleware.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := map[string]string{
		telemetry.ProfilingLabelMethod: c.Request.Method,
		telemetry.ProfilingLabelRoute:  c.FullPath(),
	}
	if tenantID, ok := GetTenantUUID(c); ok {
		labels[telemetry.ProfilingLabelTenantID] = tenantID.String()
	}
	return labels
}
