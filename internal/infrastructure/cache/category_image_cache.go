package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultCategoryImageTTL is how long a category mapping stays in the cache
const DefaultCategoryImageTTL = 7 * 24 * time.Hour

// Backend is the byte-level key/value store under a typed cache
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisBackend stores values in Redis
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend creates a backend on a shared client
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

// Get returns the value, or false on a miss
func (b *RedisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores the value with a TTL
func (b *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes the key
func (b *RedisBackend) Delete(ctx context.Context, key string) error {
	return b.client.Del(ctx, key).Err()
}

type categoryImageEntry struct {
	CategoryName string `json:"category_name"`
	ImageURL     string `json:"image_url"`
	ObjectKey    string `json:"object_key"`
}

// CategoryImageCache is the first lookup for generated category artwork, in front of the table
type CategoryImageCache struct {
	backend Backend
	ttl     time.Duration
	prefix  string
	logger  *zap.Logger
}

// CategoryImageCacheOption configures a CategoryImageCache
type CategoryImageCacheOption func(*CategoryImageCache)

// WithCategoryCacheTTL overrides DefaultCategoryImageTTL
func WithCategoryCacheTTL(ttl time.Duration) CategoryImageCacheOption {
	return func(c *CategoryImageCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCategoryCacheLogger sets the logger
func WithCategoryCacheLogger(logger *zap.Logger) CategoryImageCacheOption {
	return func(c *CategoryImageCache) {
		c.logger = logger
	}
}

// NewCategoryImageCache creates a cache on backend
func NewCategoryImageCache(backend Backend, opts ...CategoryImageCacheOption) *CategoryImageCache {
	c := &CategoryImageCache{
		backend: backend,
		ttl:     DefaultCategoryImageTTL,
		prefix:  "bizgrow:category_image:",
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached mapping for a category key, or nil on a miss.
// Corrupt entries are deleted and reported as a miss.
func (c *CategoryImageCache) Get(ctx context.Context, key string) (*catalog.CategoryImage, error) {
	data, ok, err := c.backend.Get(ctx, c.prefix+key)
	if err != nil {
		return nil, fmt.Errorf("failed to read category image cache: %w", err)
	}
	if !ok {
		c.logger.Debug("category image cache miss", zap.String("category_key", key))
		return nil, nil
	}

	var e categoryImageEntry
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("dropping corrupt category image cache entry", zap.String("category_key", key), zap.Error(err))
		_ = c.backend.Delete(ctx, c.prefix+key)
		return nil, nil
	}

	return &catalog.CategoryImage{
		CategoryKey:  key,
		CategoryName: e.CategoryName,
		ImageURL:     e.ImageURL,
		ObjectKey:    e.ObjectKey,
	}, nil
}

// Set caches a mapping under its CategoryKey
func (c *CategoryImageCache) Set(ctx context.Context, img *catalog.CategoryImage) error {
	if img == nil {
		return nil
	}
	data, err := json.Marshal(categoryImageEntry{
		CategoryName: img.CategoryName,
		ImageURL:     img.ImageURL,
		ObjectKey:    img.ObjectKey,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal category image: %w", err)
	}
	if err := c.backend.Set(ctx, c.prefix+img.CategoryKey, data, c.ttl); err != nil {
		return fmt.Errorf("failed to write category image cache: %w", err)
	}
	return nil
}
