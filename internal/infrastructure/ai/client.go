// Package ai adapts an OpenAI-compatible gateway (chat completions with
// tool calling, image generation) to the application's AI ports.
package ai

import (
	"net/http"
	"time"

	"github.com/bizgrow/backend/internal/infrastructure/config"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// NewOpenAIClient builds a client for the configured gateway
func NewOpenAIClient(cfg config.AIConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}
	return openai.NewClientWithConfig(clientCfg)
}

// Option configures the detector and generator
type Option func(*settings)

type settings struct {
	limiter *Limiter
	metrics *Metrics
	logger  *zap.Logger
}

func newSettings(opts []Option) settings {
	s := settings{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLimiter throttles upstream calls
func WithLimiter(l *Limiter) Option {
	return func(s *settings) {
		s.limiter = l
	}
}

// WithMetrics records request counts and latency
func WithMetrics(m *Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}
