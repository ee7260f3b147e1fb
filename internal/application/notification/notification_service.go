package notification

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NotificationResponse is a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToNotificationResponse converts a domain notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		OrderID:   n.OrderID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationService serves the merchant's notification bell
type NotificationService struct {
	repo notification.Repository
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(repo notification.Repository) *NotificationService {
	return &NotificationService{repo: repo}
}

// List returns a page of notifications, newest first
func (s *NotificationService) List(ctx context.Context, storeID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[NotificationResponse], error) {
	filter = filter.Normalize()
	if unreadOnly {
		filter = filter.With("unread", true)
	}
	list, err := s.repo.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NotificationResponse, len(list))
	for i := range list {
		items[i] = ToNotificationResponse(&list[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, storeID, id uuid.UUID) (*NotificationResponse, error) {
	n, err := s.repo.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsRead {
		n.MarkRead()
		if err := s.repo.Save(ctx, n); err != nil {
			return nil, err
		}
	}
	resp := ToNotificationResponse(n)
	return &resp, nil
}

// MarkAllRead marks every unread notification of the store and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return s.repo.MarkAllRead(ctx, storeID)
}

// UnreadCount returns the badge number
func (s *NotificationService) UnreadCount(ctx context.Context, storeID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, storeID)
}
