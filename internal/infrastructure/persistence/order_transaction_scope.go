package persistence

import (
	"context"

	apporder "github.com/bizgrow/backend/internal/application/order"
	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormOrderTransactionScope runs order placement writes in one database transaction
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn within a transaction. An error from fn rolls everything back.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

type gormOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderRepositories) Customers() order.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormOrderRepositories) Notifications() notification.Repository {
	return NewGormNotificationRepository(r.tx)
}

// Ensure GormOrderTransactionScope implements TransactionScope
var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
