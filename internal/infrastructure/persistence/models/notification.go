package models

import (
	"time"

	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/google/uuid"
)

// NotificationModel is the persistence model for merchant notifications
type NotificationModel struct {
	BaseModel
	StoreID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type    notification.Type `gorm:"type:varchar(30);not null"`
	Title   string            `gorm:"type:varchar(200);not null"`
	Message string            `gorm:"type:text"`
	OrderID *uuid.UUID        `gorm:"type:uuid"`
	IsRead  bool              `gorm:"not null;default:false;index"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	return &notification.Notification{
		BaseEntity: m.Entity(),
		StoreID:    m.StoreID,
		Type:       m.Type,
		Title:      m.Title,
		Message:    m.Message,
		OrderID:    m.OrderID,
		IsRead:     m.IsRead,
		ReadAt:     m.ReadAt,
	}
}

// FromDomain populates the persistence model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.SetEntity(n.BaseEntity)
	m.StoreID = n.StoreID
	m.Type = n.Type
	m.Title = n.Title
	m.Message = n.Message
	m.OrderID = n.OrderID
	m.IsRead = n.IsRead
	m.ReadAt = n.ReadAt
}
