// Package notification serves the merchant's notification bell and pushes
// new-order hints to open dashboards.
package notification

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Live event types sent to dashboards
const (
	LiveEventOrderCreated = "order_created"
	LiveEventOrderUpdated = "order_updated"
)

// LiveEvent is the compact payload pushed to a merchant's open dashboards.
// Clients treat it as a hint to refetch orders and notifications.
type LiveEvent struct {
	Type        string     `json:"type"`
	StoreID     uuid.UUID  `json:"store_id"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	OrderNumber string     `json:"order_number,omitempty"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Total       string     `json:"total,omitempty"`
	At          time.Time  `json:"at"`
}

// LivePublisher delivers live events to every dashboard of a store,
// through Redis pub/sub or straight to the local hub.
type LivePublisher interface {
	PublishLive(ctx context.Context, event LiveEvent) error
}

// EventForwarder hands domain events to an external broker
type EventForwarder interface {
	Forward(ctx context.Context, event shared.DomainEvent) error
}
