package order

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Repository persists orders with their items
type Repository interface {
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Order, error)
	// FindAllForStore supports filters "status", "from", "to" and Filter.Search on number/name/phone
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
	FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]Order, error)
	Save(ctx context.Context, o *Order) error
	Summarize(ctx context.Context, storeID uuid.UUID, since time.Time) (*Summary, error)
	TopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]ProductSales, error)
}

// CustomerRepository persists storefront customers
type CustomerRepository interface {
	FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*Customer, error)
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Customer, error)
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
	Save(ctx context.Context, c *Customer) error
	// UpsertForOrder adds the order to the customer keyed by (store, phone), creating it if needed
	UpsertForOrder(ctx context.Context, o *Order) (*Customer, error)
}

// Summary is the order aggregate shown on the merchant dashboard
type Summary struct {
	TotalOrders   int64
	PendingOrders int64
	TotalRevenue  decimal.Decimal
	OrdersSince   int64
	RevenueSince  decimal.Decimal
}

// ProductSales is one row of the best-sellers widget
type ProductSales struct {
	ProductID *uuid.UUID
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}
