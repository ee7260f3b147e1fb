package cache

import (
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Stores bundles the Redis-or-memory implementations picked at startup
type Stores struct {
	Idempotency    shared.IdempotencyStore
	CategoryImages *CategoryImageCache
}

// Factory creates cache-backed stores, falling back to memory when Redis is off
type Factory struct {
	client *redis.Client
	logger *zap.Logger
}

// NewFactory creates a factory. A nil client selects the in-memory implementations.
func NewFactory(client *redis.Client, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{client: client, logger: logger}
}

// CreateIdempotencyStore returns a Redis store when a client is configured
func (f *Factory) CreateIdempotencyStore() shared.IdempotencyStore {
	if f.client != nil {
		f.logger.Info("using Redis idempotency store")
		return NewRedisIdempotencyStore(f.client, "")
	}
	f.logger.Warn("Redis disabled, using in-memory idempotency store. " +
		"Idempotency keys are not shared between instances.")
	return NewInMemoryIdempotencyStore()
}

// CreateCategoryImageCache returns a cache on Redis, or a process-local one
func (f *Factory) CreateCategoryImageCache(opts ...CategoryImageCacheOption) *CategoryImageCache {
	opts = append([]CategoryImageCacheOption{WithCategoryCacheLogger(f.logger)}, opts...)
	if f.client != nil {
		return NewCategoryImageCache(NewRedisBackend(f.client), opts...)
	}
	return NewCategoryImageCache(NewMemoryBackend(), opts...)
}

// CreateStores builds every store in one call
func (f *Factory) CreateStores(opts ...CategoryImageCacheOption) Stores {
	return Stores{
		Idempotency:    f.CreateIdempotencyStore(),
		CategoryImages: f.CreateCategoryImageCache(opts...),
	}
}
