package cache

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
)

const idempotencySweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps Idempotency-Key claims in process memory.
// It follows the Redis store's encoding, so a claim without a result holds
// pendingMarker.
type InMemoryIdempotencyStore struct {
	backend *MemoryBackend
}

// NewInMemoryIdempotencyStore creates a store with a background sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{backend: NewSweptMemoryBackend(idempotencySweepInterval)}
}

// Claim reserves key for ttl. Returns false if a live entry already exists.
func (s *InMemoryIdempotencyStore) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return s.backend.SetNX(ctx, key, []byte(pendingMarker), ttl)
}

// Result returns the stored value of a completed key
func (s *InMemoryIdempotencyStore) Result(ctx context.Context, key string) (string, bool, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil || !ok || string(data) == pendingMarker {
		return "", false, err
	}
	return string(data), true, nil
}

// Complete replaces the claim with value
func (s *InMemoryIdempotencyStore) Complete(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.backend.Set(ctx, key, []byte(value), ttl)
}

// Release forgets key so the client may retry
func (s *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, key)
}

// Close stops the sweeper
func (s *InMemoryIdempotencyStore) Close() error {
	return s.backend.Close()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
