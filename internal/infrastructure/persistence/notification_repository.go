package persistence

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForStore finds a notification within a store
func (r *GormNotificationRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*notification.Notification, error) {
	q := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id)
	return findOne(q, (*models.NotificationModel).ToDomain)
}

// FindAllForStore lists a store's notifications, newest first by default
func (r *GormNotificationRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]notification.Notification, error) {
	var list []models.NotificationModel
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(StoreScope(storeID), unreadScope(filter), OrderBy(filter, notificationSort), Paginate(filter)).
		Find(&list).Error; err != nil {
		return nil, err
	}
	out := make([]notification.Notification, len(list))
	for i := range list {
		out[i] = *list[i].ToDomain()
	}
	return out, nil
}

// CountForStore counts a store's notifications matching the filter
func (r *GormNotificationRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(StoreScope(storeID), unreadScope(filter)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountUnread counts a store's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(StoreScope(storeID)).
		Where("is_read = ?", false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// MarkAllRead flags every unread notification of a store as read
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.NotificationModel{}).
		Scopes(StoreScope(storeID)).
		Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "read_at": now, "updated_at": now})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := &models.NotificationModel{}
	model.FromDomain(n)
	return r.db.WithContext(ctx).Save(model).Error
}

func unreadScope(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if unread, ok := filterBool(filter, "unread"); ok && unread {
			return db.Where("is_read = ?", false)
		}
		return db
	}
}

// Ensure GormNotificationRepository implements notification.Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
