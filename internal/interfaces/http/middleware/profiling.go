package middleware

import (
	"context"

	"github.com/bizgrow/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig holds configuration for the profiling middleware
type ProfilingConfig struct {
	Enabled      bool
	SkipPrefixes []string
}

// DefaultProfilingConfig skips the probe and docs endpoints
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:      true,
		SkipPrefixes: []string{"/health", "/metrics", "/swagger"},
	}
}

// Profiling tags CPU samples taken while serving a request with its route,
// method and store, so Pyroscope can slice profiles per endpoint.
// The store comes from the path parameter since StoreAccess runs later in the chain.
func Profiling(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || hasAnyPrefix(c.Request.URL.Path, cfg.SkipPrefixes) {
			c.Next()
			return
		}

		labels := telemetry.HTTPRequestLabels(route, c.Request.Method, c.Param(StoreIDParam))
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
