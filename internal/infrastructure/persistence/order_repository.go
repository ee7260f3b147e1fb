package persistence

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByIDForStore loads an order with its items
func (r *GormOrderRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id)
	return findOne(q, (*models.OrderModel).ToDomain)
}

// FindAllForStore lists a store's orders with their items
func (r *GormOrderRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	var list []models.OrderModel
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Preload("Items", orderedItems).
		Scopes(StoreScope(storeID), r.filterScope(filter), OrderBy(filter, orderSort), Paginate(filter)).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toOrders(list), nil
}

// CountForStore counts a store's orders matching the filter
func (r *GormOrderRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(StoreScope(storeID), r.filterScope(filter)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindRecent returns the newest orders of a store
func (r *GormOrderRepository) FindRecent(ctx context.Context, storeID uuid.UUID, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 5
	}
	var list []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Scopes(StoreScope(storeID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toOrders(list), nil
}

// Save creates or updates an order. Items are written once and never rewritten.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	model := models.OrderModelFromDomain(o)
	items := model.Items
	model.Items = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&items).Error
	})
}

type summaryRow struct {
	TotalOrders   int64
	PendingOrders int64
	TotalRevenue  decimal.Decimal
	OrdersSince   int64
	RevenueSince  decimal.Decimal
}

// Summarize aggregates order counts and revenue. Cancelled orders never count as revenue.
func (r *GormOrderRepository) Summarize(ctx context.Context, storeID uuid.UUID, since time.Time) (*order.Summary, error) {
	var row summaryRow
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Scopes(StoreScope(storeID)).
		Select(`COUNT(*) AS total_orders,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders,
			COALESCE(SUM(CASE WHEN status <> ? THEN total ELSE 0 END), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END), 0) AS orders_since,
			COALESCE(SUM(CASE WHEN created_at >= ? AND status <> ? THEN total ELSE 0 END), 0) AS revenue_since`,
			order.StatusPending, order.StatusCancelled, since, since, order.StatusCancelled).
		Scan(&row).Error; err != nil {
		return nil, err
	}
	return &order.Summary{
		TotalOrders:   row.TotalOrders,
		PendingOrders: row.PendingOrders,
		TotalRevenue:  row.TotalRevenue,
		OrdersSince:   row.OrdersSince,
		RevenueSince:  row.RevenueSince,
	}, nil
}

type productSalesRow struct {
	ProductID *uuid.UUID
	Name      string
	Quantity  int64
	Revenue   decimal.Decimal
}

// TopProducts ranks products by units sold across non-cancelled orders
func (r *GormOrderRepository) TopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]order.ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []productSalesRow
	if err := r.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.product_id AS product_id, order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.line_total) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.store_id = ? AND orders.status <> ?", storeID, order.StatusCancelled).
		Group("order_items.product_id, order_items.name").
		Order("quantity DESC").
		Order("name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]order.ProductSales, len(rows))
	for i, row := range rows {
		out[i] = order.ProductSales(row)
	}
	return out, nil
}

func (r *GormOrderRepository) filterScope(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = Search(filter.Search, "order_number", "customer_name", "customer_phone")(db)
		if status, ok := filterString(filter, "status"); ok {
			db = db.Where("status = ?", status)
		}
		if from, ok := filter.Filters["from"].(time.Time); ok && !from.IsZero() {
			db = db.Where("created_at >= ?", from)
		}
		if to, ok := filter.Filters["to"].(time.Time); ok && !to.IsZero() {
			db = db.Where("created_at < ?", to)
		}
		return db
	}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("name ASC")
}

func toOrders(list []models.OrderModel) []order.Order {
	orders := make([]order.Order, len(list))
	for i := range list {
		orders[i] = *list[i].ToDomain()
	}
	return orders
}

// Ensure GormOrderRepository implements order.Repository
var _ order.Repository = (*GormOrderRepository)(nil)
