package realtime

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appnotification "github.com/bizgrow/backend/internal/application/notification"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_RegisterAndBroadcast(t *testing.T) {
	hub := NewHub()
	storeA := uuid.New()
	storeB := uuid.New()

	a1, err := hub.Register(storeA, "u1")
	require.NoError(t, err)
	a2, err := hub.Register(storeA, "u2")
	require.NoError(t, err)
	b1, err := hub.Register(storeB, "u3")
	require.NoError(t, err)

	assert.Equal(t, 3, hub.ClientCount())
	assert.Equal(t, 2, hub.StoreClientCount(storeA))

	delivered := hub.Broadcast(storeA, Message{Event: "order_created", Data: []byte(`{}`)})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "order_created", (<-a1.Messages()).Event)
	assert.Equal(t, "order_created", (<-a2.Messages()).Event)
	select {
	case <-b1.Messages():
		t.Fatal("other store must not receive the message")
	default:
	}
}

func TestHub_MaxClients(t *testing.T) {
	hub := NewHub(WithMaxClients(1))
	_, err := hub.Register(uuid.New(), "u1")
	require.NoError(t, err)

	_, err = hub.Register(uuid.New(), "u2")
	assert.ErrorIs(t, err, ErrTooManyClients)
}

func TestHub_UnregisterClosesQueue(t *testing.T) {
	hub := NewHub()
	storeID := uuid.New()
	c, err := hub.Register(storeID, "u1")
	require.NoError(t, err)

	hub.Unregister(c)
	hub.Unregister(c)

	_, ok := <-c.Messages()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.Broadcast(storeID, Message{Event: "x"}))
}

func TestHub_FullQueueDropsMessage(t *testing.T) {
	hub := NewHub(WithClientBuffer(1))
	storeID := uuid.New()
	_, err := hub.Register(storeID, "u1")
	require.NoError(t, err)

	assert.Equal(t, 1, hub.Broadcast(storeID, Message{Event: "first"}))
	assert.Equal(t, 0, hub.Broadcast(storeID, Message{Event: "second"}))
}

func TestHub_Close(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(uuid.New(), "u1")
	require.NoError(t, err)

	hub.Close()
	_, ok := <-c.Messages()
	assert.False(t, ok)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestLocalBroker_PublishLive(t *testing.T) {
	hub := NewHub()
	storeID := uuid.New()
	c, err := hub.Register(storeID, "u1")
	require.NoError(t, err)

	broker := NewLocalBroker(hub)
	orderID := uuid.New()
	err = broker.PublishLive(context.Background(), appnotification.LiveEvent{
		Type:        appnotification.LiveEventOrderCreated,
		StoreID:     storeID,
		OrderID:     &orderID,
		OrderNumber: "ORD-20260115-ABCDEF",
		Title:       "New order",
		At:          time.Now(),
	})
	require.NoError(t, err)

	msg := <-c.Messages()
	assert.Equal(t, appnotification.LiveEventOrderCreated, msg.Event)
	assert.Contains(t, string(msg.Data), "ORD-20260115-ABCDEF")
}

func TestStreamSSE(t *testing.T) {
	hub := NewHub()
	storeID := uuid.New()
	c, err := hub.Register(storeID, "u1")
	require.NoError(t, err)

	hub.Broadcast(storeID, Message{Event: "order_created", Data: []byte(`{"order_number":"ORD-1"}`)})
	hub.Unregister(c)

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, StreamSSE(context.Background(), rec, c, time.Minute))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not end after unregister")
	}

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "event: connected\n"))
	assert.Contains(t, body, "event: order_created\ndata: {\"order_number\":\"ORD-1\"}\n\n")
}

func TestStreamSSE_StopsOnContextCancel(t *testing.T) {
	hub := NewHub()
	c, err := hub.Register(uuid.New(), "u1")
	require.NoError(t, err)
	defer hub.Unregister(c)

	ctx, cancel := context.WithCancel(context.Background())
	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, StreamSSE(ctx, rec, c, 10*time.Millisecond))
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stream did not stop on cancel")
	}
	assert.Contains(t, rec.Body.String(), "event: heartbeat")
}
