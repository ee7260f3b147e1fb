package router

import (
	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig configures the HTTP engine and its middleware stack
type EngineConfig struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	Swagger     config.SwaggerConfig
	Telemetry   config.TelemetryConfig
	APIVersion  string
	Metrics     *middleware.HTTPMetrics // nil disables request metrics
	Gatherer    prometheus.Gatherer     // serves /metrics when set
	RateLimiter *middleware.RateLimiter // nil disables rate limiting
}

// NewEngine builds the gin engine with every API route mounted.
//
// Middleware order: request id, recovery, access log, tracing, span
// attributes, profiling, security headers, CORS, body limit, metrics, rate limit.
func NewEngine(cfg EngineConfig, h Handlers, g Guards) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "v1"
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log, logger.WithSkipPaths("/health", "/metrics")))

	tracing := middleware.DefaultTracingConfig()
	tracing.Enabled = cfg.Telemetry.Enabled
	if cfg.Telemetry.ServiceName != "" {
		tracing.ServiceName = cfg.Telemetry.ServiceName
	}
	engine.Use(middleware.TracingWithConfig(tracing))
	engine.Use(middleware.SpanAttributes())

	profiling := middleware.DefaultProfilingConfig()
	profiling.Enabled = cfg.Telemetry.ProfilingEnabled
	engine.Use(middleware.Profiling(profiling))

	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFromHTTP(cfg.HTTP)))

	maxBody := cfg.HTTP.MaxBodySize
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	engine.Use(middleware.BodyLimitWithOverrides(maxBody, BodyLimitOverrides(cfg.APIVersion)))

	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", h.System.Health)
	if cfg.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))
	engine.NoRoute(h.System.NotFoundRoute)

	groups := APIGroups(h, g)
	Mount(engine, cfg.APIVersion, groups...)
	if ce := log.Check(zap.DebugLevel, "API routes mounted"); ce != nil {
		total := 0
		for _, r := range groups {
			if dg, ok := r.(*DomainGroup); ok {
				total += dg.Count()
			}
		}
		ce.Write(zap.Int("routes", total), zap.String("version", cfg.APIVersion))
	}

	return engine
}
