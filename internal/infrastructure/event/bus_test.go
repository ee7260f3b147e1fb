package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string, storeID uuid.UUID) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), storeID),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panics     bool
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_PublishRouting(t *testing.T) {
	tests := []struct {
		name      string
		subscribe []string // nil subscribes to everything
		published []string
		want      int
	}{
		{"matching type", []string{"OrderCreated"}, []string{"OrderCreated"}, 1},
		{"every event of the batch", []string{"OrderCreated"}, []string{"OrderCreated", "OrderCreated"}, 2},
		{"catch-all", nil, []string{"ProductsImported", "OrderStatusChanged"}, 2},
		{"other type", []string{"OrderStatusChanged"}, []string{"OrderCreated"}, 0},
		{"subset of a batch", []string{"ProductCreated"}, []string{"ProductCreated", "OrderCreated"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			first := newTestHandler(tt.subscribe...)
			second := newTestHandler(tt.subscribe...)
			bus.Subscribe(first)
			bus.Subscribe(second)

			storeID := uuid.New()
			events := make([]shared.DomainEvent, 0, len(tt.published))
			for _, eventType := range tt.published {
				events = append(events, newTestEvent(eventType, storeID))
			}
			require.NoError(t, bus.Publish(context.Background(), events...))

			assert.Len(t, first.getHandled(), tt.want)
			assert.Len(t, second.getHandled(), tt.want)
			if tt.want > 0 {
				assert.Equal(t, storeID, first.getHandled()[0].StoreID())
			}
		})
	}
}

func TestInMemoryEventBus_Publish_HandlerErrorIsLoggedNotReturned(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("OrderCreated")
	failing.err = errors.New("redis down")
	healthy := newTestHandler("OrderCreated")
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	storeID := uuid.New()
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated", storeID)))

	assert.Len(t, failing.getHandled(), 1)
	assert.Len(t, healthy.getHandled(), 1)

	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 1)
	assert.Equal(t, storeID.String(), entries[0].ContextMap()["store_id"])
}

func TestInMemoryEventBus_Publish_RecoversFromPanic(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	panicking := newTestHandler("OrderCreated")
	panicking.panics = true
	after := newTestHandler("OrderCreated")
	bus.Subscribe(panicking)
	bus.Subscribe(after)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("OrderCreated", uuid.New()))
	})
	assert.Len(t, after.getHandled(), 1)
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("OrderCreated")
	bus.Subscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("OrderCreated", uuid.New()))
	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("OrderCreated", uuid.New()))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_AsyncDispatch(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	require.NoError(t, bus.Start(context.Background()))

	handler := newTestHandler("OrderCreated")
	bus.Subscribe(handler)

	ctx, cancelRequest := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("OrderCreated", uuid.New())))
	// handlers must survive the request context being cancelled
	cancelRequest()

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(stopCtx))

	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_AsyncBeforeStartIsSynchronous(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())

	handler := newTestHandler("OrderCreated")
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated", uuid.New())))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StopTimesOut(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop(), WithAsyncDispatch())
	require.NoError(t, bus.Start(context.Background()))

	release := make(chan struct{})
	bus.Subscribe(&HandlerFunc{
		Types: []string{"OrderCreated"},
		Fn: func(ctx context.Context, event shared.DomainEvent) error {
			<-release
			return nil
		},
	})
	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderCreated", uuid.New())))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Stop(context.Background()))
}
