package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// MemoryBackend is a process-local Backend for single-instance deployments.
// Expired items are hidden on read and removed by Sweep.
type MemoryBackend struct {
	mu    sync.Mutex
	items map[string]memoryItem

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewMemoryBackend creates an empty backend with no background sweeper
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]memoryItem)}
}

// NewSweptMemoryBackend creates a backend that sweeps expired items every
// interval until Close.
func NewSweptMemoryBackend(interval time.Duration) *MemoryBackend {
	b := NewMemoryBackend()
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go func() {
		defer close(b.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.Sweep()
			}
		}
	}()
	return b
}

// Get returns the value, or false on a miss
func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	item, ok := b.items[key]
	if !ok || item.expired(time.Now()) {
		return nil, false, nil
	}
	return item.value, true, nil
}

// Set stores the value; a zero ttl never expires
func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	b.items[key] = newMemoryItem(value, ttl)
	b.mu.Unlock()
	return nil
}

// SetNX stores the value only when no live item holds key, like Redis SETNX
func (b *MemoryBackend) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if item, ok := b.items[key]; ok && !item.expired(time.Now()) {
		return false, nil
	}
	b.items[key] = newMemoryItem(value, ttl)
	return true, nil
}

// Delete removes the key
func (b *MemoryBackend) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	delete(b.items, key)
	b.mu.Unlock()
	return nil
}

// Sweep drops every expired item
func (b *MemoryBackend) Sweep() {
	now := time.Now()
	b.mu.Lock()
	defer b.mu.Unlock()
	for key, item := range b.items {
		if item.expired(now) {
			delete(b.items, key)
		}
	}
}

// Len counts stored items, expired ones included until the next sweep
func (b *MemoryBackend) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Close stops the sweeper, if any. Safe to call more than once.
func (b *MemoryBackend) Close() error {
	if b.stop == nil {
		return nil
	}
	b.closeOnce.Do(func() {
		close(b.stop)
		<-b.done
	})
	return nil
}

func newMemoryItem(value []byte, ttl time.Duration) memoryItem {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}
	return item
}
