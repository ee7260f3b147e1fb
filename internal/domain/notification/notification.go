package notification

import (
	"strings"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Type classifies merchant notifications
type Type string

const (
	TypeNewOrder     Type = "new_order"
	TypeOrderUpdate  Type = "order_update"
	TypeLowStock     Type = "low_stock"
	TypeImportResult Type = "import_result"
)

// Notification is a message shown in the merchant's dashboard bell
type Notification struct {
	shared.BaseEntity
	StoreID uuid.UUID
	Type    Type
	Title   string
	Message string
	OrderID *uuid.UUID
	IsRead  bool
	ReadAt  *time.Time
}

// New creates an unread notification
func New(storeID uuid.UUID, typ Type, title, message string) (*Notification, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title is required")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		StoreID:    storeID,
		Type:       typ,
		Title:      title,
		Message:    message,
	}, nil
}

// ForOrder links the notification to an order
func (n *Notification) ForOrder(orderID uuid.UUID) *Notification {
	n.OrderID = &orderID
	return n
}

// MarkRead flags the notification as read; repeated calls keep the first read time
func (n *Notification) MarkRead() {
	if n.IsRead {
		return
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	n.UpdatedAt = now
}
