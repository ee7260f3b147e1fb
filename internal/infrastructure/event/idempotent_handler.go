package event

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultEventDedupTTL is how long a handled event id is remembered
const DefaultEventDedupTTL = time.Hour

// IdempotencyStats is a snapshot of an IdempotentHandler's counters
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler drops events whose id was already handled.
// Realtime fan-out uses it so a replayed OrderCreated does not ping the merchant twice.
type IdempotentHandler struct {
	handler   shared.EventHandler
	store     shared.IdempotencyStore
	logger    *zap.Logger
	ttl       time.Duration
	keyPrefix string

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithDedupTTL sets how long event ids are remembered
func WithDedupTTL(ttl time.Duration) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		if ttl > 0 {
			h.ttl = ttl
		}
	}
}

// WithKeyPrefix namespaces the keys so two handlers can see the same event
func WithKeyPrefix(prefix string) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.keyPrefix = prefix
	}
}

// NewIdempotentHandler wraps handler with event-id deduplication
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	h := &IdempotentHandler{
		handler:   handler,
		store:     store,
		logger:    logger,
		ttl:       DefaultEventDedupTTL,
		keyPrefix: "event:",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle processes the event unless its id was already claimed
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := h.keyPrefix + event.EventID().String()

	isNew, err := h.store.Claim(ctx, key, h.ttl)
	if err != nil {
		// a duplicate notification is better than a lost one
		h.logger.Warn("failed to check event idempotency, processing anyway",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	} else if !isNew {
		h.duplicate.Add(1)
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		// the claim is kept so a failing handler is not hammered; it expires with the TTL
		return err
	}

	h.processed.Add(1)
	return nil
}

// Stats returns the handler's counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
