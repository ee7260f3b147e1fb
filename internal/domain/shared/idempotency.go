package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that have already been processed.
// It backs the Idempotency-Key header on create-order.
type IdempotencyStore interface {
	// Claim marks the key as in use with a TTL.
	// Returns true if the key was newly claimed, false if it already existed.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Result returns the value stored for a completed key
	Result(ctx context.Context, key string) (string, bool, error)

	// Complete stores the result value for a claimed key
	Complete(ctx context.Context, key, value string, ttl time.Duration) error

	// Release drops a claim so the request can be retried
	Release(ctx context.Context, key string) error

	Close() error
}

// DefaultIdempotencyTTL is how long create-order keys are remembered
const DefaultIdempotencyTTL = 24 * time.Hour
