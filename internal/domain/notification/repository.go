package notification

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository persists merchant notifications
type Repository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Notification, error)
	// FindAllForStore supports the "unread" filter
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Notification, error)
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
	CountUnread(ctx context.Context, storeID uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error)
	Save(ctx context.Context, n *Notification) error
}
