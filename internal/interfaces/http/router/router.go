// Package router assembles the gin engine: the global middleware chain, the
// unauthenticated health endpoint and the tenant-scoped /api/v1 group.
package router

import (
	"fmt"

	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/auth"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/config"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use adds middleware that runs for every versioned API route
func (r *Router) Use(mw ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, mw...)
	return r
}

// Register adds RouteRegistrars to be registered by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// Setup registers all routes with the engine and returns the API group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/"+r.apiVersion, r.middleware...)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

// EngineDeps are the collaborators of the HTTP engine
type EngineDeps struct {
	Config *config.Config
	Logger *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
	// JWTService verifies bearer tokens; nil disables bearer auth and leaves
	// the tenant to the X-Tenant-ID header
	JWTService *auth.JWTService
	Health     gin.HandlerFunc
	Registrars []RouteRegistrar
}

// NewEngine builds the gin engine. The chain order is fixed:
//
//	tracing > recovery > request id > access log > security headers > CORS >
//	body limit > metrics > span enrichment > (api) JWT > tenant > profiling labels
func NewEngine(deps EngineDeps) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, fmt.Errorf("invalid trusted proxies: %w", err)
		}
	}

	metrics, err := middleware.HTTPMetrics(deps.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP metrics: %w", err)
	}

	engine.Use(
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		metrics,
		middleware.SpanEnricher(),
	)

	if deps.Health != nil {
		engine.GET("/health", deps.Health)
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	if deps.JWTService != nil {
		r.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
			JWTService: deps.JWTService,
			Required:   cfg.JWT.Required,
			Logger:     log,
		}))
	}

	tenantCfg := middleware.DefaultTenantConfig()
	tenantCfg.HeaderEnabled = !cfg.JWT.Required
	r.Use(middleware.TenantMiddleware(tenantCfg))
	r.Use(middleware.Profiling(cfg.Telemetry.ProfilingEnabled))

	r.Register(deps.Registrars...)
	r.Setup()

	return engine, nil
}
