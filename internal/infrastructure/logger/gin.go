package logger

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// secretQueryParams are replaced with [REDACTED] in logged query strings.
// Browsers cannot set headers on EventSource or WebSocket requests, so live
// streams authenticate with ?access_token=.
var secretQueryParams = []string{"access_token", "token"}

// GinOption configures GinMiddleware
type GinOption func(*ginOptions)

type ginOptions struct {
	skip map[string]bool
}

// WithSkipPaths suppresses the access record for probe endpoints such as
// /health and /metrics. The request-scoped logger is still attached.
func WithSkipPaths(paths ...string) GinOption {
	return func(o *ginOptions) {
		for _, p := range paths {
			o.skip[p] = true
		}
	}
}

// GinMiddleware attaches a request-scoped logger to the gin and request
// contexts, then writes one access record per request at a level chosen by
// the status code.
func GinMiddleware(logger *zap.Logger, opts ...GinOption) gin.HandlerFunc {
	o := &ginOptions{skip: map[string]bool{}}
	for _, opt := range opts {
		opt(o)
	}

	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetString("request_id")

		reqLogger := logger.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.Set("logger", reqLogger)
		ctx := WithContext(c.Request.Context(), reqLogger)
		if requestID != "" {
			ctx = WithRequestID(ctx, requestID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if o.skip[c.Request.URL.Path] {
			return
		}
		logAccess(c, reqLogger, time.Since(start))
	}
}

func logAccess(c *gin.Context, l *zap.Logger, latency time.Duration) {
	status := c.Writer.Status()
	fields := []zap.Field{
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", c.ClientIP()),
		zap.String("user_agent", c.Request.UserAgent()),
		zap.Int("body_size", c.Writer.Size()),
	}
	if route := c.FullPath(); route != "" {
		fields = append(fields, zap.String("route", route))
	}
	if query := redactQuery(c.Request.URL.RawQuery); query != "" {
		fields = append(fields, zap.String("query", query))
	}
	for field, key := range map[string]string{"store_id": "store_id", "user_id": "jwt_user_id"} {
		if v := c.GetString(key); v != "" {
			fields = append(fields, zap.String(field, v))
		}
	}
	if traceID := GetTraceID(c.Request.Context()); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID))
	}
	if len(c.Errors) > 0 {
		fields = append(fields, zap.Strings("errors", c.Errors.Errors()))
	}

	switch {
	case status >= http.StatusInternalServerError:
		l.Error("HTTP Request", fields...)
	case status >= http.StatusBadRequest:
		l.Warn("HTTP Request", fields...)
	default:
		l.Info("HTTP Request", fields...)
	}
}

// redactQuery masks credential parameters. An unparseable query is dropped.
func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return ""
	}
	redacted := false
	for _, key := range secretQueryParams {
		if values.Has(key) {
			values.Set(key, "[REDACTED]")
			redacted = true
		}
	}
	if !redacted {
		return raw
	}
	return values.Encode()
}

// Recovery turns a panic into the standard 500 error envelope
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Panic recovered",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("error", recovered),
			zap.Stack("stacktrace"),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An internal error occurred",
			},
		})
	})
}

// GetGinLogger returns the request-scoped logger, or a no-op logger outside a request
func GetGinLogger(c *gin.Context) *zap.Logger {
	if l, ok := c.Get("logger"); ok {
		if zl, ok := l.(*zap.Logger); ok {
			return zl
		}
	}
	return zap.NewNop()
}
