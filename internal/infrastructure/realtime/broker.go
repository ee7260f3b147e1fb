package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	appnotification "github.com/bizgrow/backend/internal/application/notification"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannelPrefix is prepended to the store id to form a Redis channel
const DefaultChannelPrefix = "bizgrow:orders:"

func toMessage(event appnotification.LiveEvent) (Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to marshal live event: %w", err)
	}
	return Message{Event: event.Type, Data: data}, nil
}

// LocalBroker delivers live events to this process's hub only.
// It is used when Redis is disabled and a single instance serves every dashboard.
type LocalBroker struct {
	hub *Hub
}

// NewLocalBroker creates a broker bound to hub
func NewLocalBroker(hub *Hub) *LocalBroker {
	return &LocalBroker{hub: hub}
}

// PublishLive broadcasts the event to the store's clients
func (b *LocalBroker) PublishLive(_ context.Context, event appnotification.LiveEvent) error {
	msg, err := toMessage(event)
	if err != nil {
		return err
	}
	b.hub.Broadcast(event.StoreID, msg)
	return nil
}

// RedisBroker publishes live events on a per-store Redis channel and relays
// every store channel back into the local hub, so each instance serves its own
// connections no matter which instance took the order.
type RedisBroker struct {
	client *redis.Client
	hub    *Hub
	prefix string
	logger *zap.Logger
}

// RedisBrokerOption configures a RedisBroker
type RedisBrokerOption func(*RedisBroker)

// WithChannelPrefix overrides DefaultChannelPrefix
func WithChannelPrefix(prefix string) RedisBrokerOption {
	return func(b *RedisBroker) {
		if prefix != "" {
			b.prefix = prefix
		}
	}
}

// WithBrokerLogger sets the logger
func WithBrokerLogger(logger *zap.Logger) RedisBrokerOption {
	return func(b *RedisBroker) {
		b.logger = logger
	}
}

// NewRedisBroker creates a Redis-backed broker
func NewRedisBroker(client *redis.Client, hub *Hub, opts ...RedisBrokerOption) *RedisBroker {
	b := &RedisBroker{
		client: client,
		hub:    hub,
		prefix: DefaultChannelPrefix,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Channel returns the Redis channel for storeID
func (b *RedisBroker) Channel(storeID uuid.UUID) string {
	return b.prefix + storeID.String()
}

// PublishLive publishes the event to the store's channel
func (b *RedisBroker) PublishLive(ctx context.Context, event appnotification.LiveEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal live event: %w", err)
	}
	if err := b.client.Publish(ctx, b.Channel(event.StoreID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish live event: %w", err)
	}
	return nil
}

// Run subscribes to every store channel and feeds the hub until ctx is cancelled
func (b *RedisBroker) Run(ctx context.Context) error {
	pubsub := b.client.PSubscribe(ctx, b.prefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to live channels: %w", err)
	}
	b.logger.Info("live event relay subscribed", zap.String("pattern", b.prefix+"*"))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.relay(msg)
		}
	}
}

func (b *RedisBroker) relay(msg *redis.Message) {
	storeID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, b.prefix))
	if err != nil {
		b.logger.Warn("ignoring message on unexpected channel", zap.String("channel", msg.Channel))
		return
	}

	var event appnotification.LiveEvent
	if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
		b.logger.Warn("ignoring malformed live event", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	b.hub.Broadcast(storeID, Message{Event: event.Type, Data: []byte(msg.Payload)})
}

var (
	_ appnotification.LivePublisher = (*LocalBroker)(nil)
	_ appnotification.LivePublisher = (*RedisBroker)(nil)
)
