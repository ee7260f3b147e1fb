package order

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
)

// TransactionScope runs order placement writes atomically.
// If fn returns an error nothing it wrote is kept.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories are the repositories placement writes through.
// All of them share the scope's transaction.
type TransactionalRepositories interface {
	Orders() order.Repository
	Customers() order.CustomerRepository
	Notifications() notification.Repository
}

// NoOpTransactionScope hands out plain repositories without a transaction.
// Tests use it with mocks.
type NoOpTransactionScope struct {
	orders        order.Repository
	customers     order.CustomerRepository
	notifications notification.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(orders order.Repository, customers order.CustomerRepository, notifications notification.Repository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orders: orders, customers: customers, notifications: notifications}
}

// Execute calls fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.Repository {
	return s.orders
}

// Customers returns the customer repository
func (s *NoOpTransactionScope) Customers() order.CustomerRepository {
	return s.customers
}

// Notifications returns the notification repository
func (s *NoOpTransactionScope) Notifications() notification.Repository {
	return s.notifications
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
