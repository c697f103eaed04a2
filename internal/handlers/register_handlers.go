package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tokokita/ecommerce_backend/cmd/docs"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
	"github.com/tokokita/ecommerce_backend/internal/platform/config"
	"github.com/ulule/limiter/v3"
)

// RouterOptions carries the infrastructure shared by all routes.
type RouterOptions struct {
	Logger *slog.Logger
	// AuthLimiter throttles the credential and mail endpoints per client IP. Nil disables throttling.
	AuthLimiter *limiter.Limiter
	// Analytics receives catalog activity events. Nil disables tracking.
	Analytics portssvc.EventTracker
}

// NewRouter builds the gin engine with the global middleware chain and every route.
func NewRouter(cfg *config.Config, services *portssvc.ServiceContainer, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		middleware.MetricsMiddleware(),
		cors.New(corsConfig(cfg)),
		middleware.RequestTimeout(cfg.RequestTimeout),
		middleware.CatalogActivityMiddleware(opts.Analytics),
	)
	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
	}

	RegisterRoutes(r, cfg, services, opts.AuthLimiter)
	return r
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupAPIV1Routes(r, cfg, services, authLimiter)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	authLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")
	authenticated := middleware.AuthMiddleware(services.TokenService, services.Users)
	limit := func(c *gin.Context) { c.Next() }
	if authLimiter != nil {
		limit = middleware.RateLimit(authLimiter)
	}

	registerHomeRoutes(v1, cfg.AppName)
	registerAuthRoutes(v1, services.Auth, cfg.DirectRegistrationEnabled, limit, authenticated)
	registerGoogleOAuthRoutes(v1, cfg, services)
	registerCatalogRoutes(v1, services.Catalog, authenticated)
	registerStoreRoutes(v1, services.Catalog, authenticated)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsCfg.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"}
	corsCfg.MaxAge = 12 * time.Hour
	if len(cfg.CORSAllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	corsCfg.AllowCredentials = true
	return corsCfg
}
