// Package realtime fans order notifications out to merchant dashboards
// connected over SSE or WebSocket.
package realtime

import (
	"sync"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultClientBuffer = 32

// ErrTooManyClients is returned by Register when the hub is full
var ErrTooManyClients = shared.NewDomainError("MAX_CONNECTIONS_REACHED", "Maximum number of live connections reached")

// Message is one frame sent to a client
type Message struct {
	Event string
	ID    string
	Data  []byte
}

// Client is a single dashboard connection
type Client struct {
	ID      string
	StoreID uuid.UUID
	UserID  string
	send    chan Message
}

// Messages returns the client's outbound queue. It is closed on Unregister.
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Hub tracks connected clients per store
type Hub struct {
	mu         sync.RWMutex
	stores     map[uuid.UUID]map[string]*Client
	count      int
	maxClients int
	buffer     int
	logger     *zap.Logger
}

// HubOption configures a Hub
type HubOption func(*Hub)

// WithMaxClients caps concurrent connections across all stores. Zero means unlimited.
func WithMaxClients(n int) HubOption {
	return func(h *Hub) {
		h.maxClients = n
	}
}

// WithClientBuffer sets the per-client queue length
func WithClientBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// WithHubLogger sets the logger
func WithHubLogger(logger *zap.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// NewHub creates an empty hub
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		stores: make(map[uuid.UUID]map[string]*Client),
		buffer: defaultClientBuffer,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds a client for storeID
func (h *Hub) Register(storeID uuid.UUID, userID string) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.maxClients > 0 && h.count >= h.maxClients {
		return nil, ErrTooManyClients
	}

	c := &Client{
		ID:      uuid.NewString(),
		StoreID: storeID,
		UserID:  userID,
		send:    make(chan Message, h.buffer),
	}
	clients, ok := h.stores[storeID]
	if !ok {
		clients = make(map[string]*Client)
		h.stores[storeID] = clients
	}
	clients[c.ID] = c
	h.count++

	h.logger.Debug("live client registered",
		zap.String("client_id", c.ID),
		zap.String("store_id", storeID.String()))
	return c, nil
}

// Unregister removes the client and closes its queue. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.stores[c.StoreID]
	if !ok {
		return
	}
	if _, ok := clients[c.ID]; !ok {
		return
	}
	delete(clients, c.ID)
	if len(clients) == 0 {
		delete(h.stores, c.StoreID)
	}
	h.count--
	close(c.send)

	h.logger.Debug("live client unregistered",
		zap.String("client_id", c.ID),
		zap.String("store_id", c.StoreID.String()))
}

// Broadcast queues msg for every client of storeID and returns how many accepted it.
// A client whose queue is full misses the message; the next refetch catches it up.
func (h *Hub) Broadcast(storeID uuid.UUID, msg Message) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, c := range h.stores[storeID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			h.logger.Warn("live client queue full, dropping message",
				zap.String("client_id", c.ID),
				zap.String("event", msg.Event))
		}
	}
	return delivered
}

// BroadcastAll queues msg for every connected client
func (h *Hub) BroadcastAll(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.stores {
		for _, c := range clients {
			select {
			case c.send <- msg:
			default:
			}
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// StoreClientCount returns the number of clients watching storeID
func (h *Hub) StoreClientCount(storeID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.stores[storeID])
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for storeID, clients := range h.stores {
		for _, c := range clients {
			close(c.send)
		}
		delete(h.stores, storeID)
	}
	h.count = 0
}
