package persistence

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements order.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByPhone finds a store's customer by normalized phone number
func (r *GormCustomerRepository) FindByPhone(ctx context.Context, storeID uuid.UUID, phone string) (*order.Customer, error) {
	q := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("phone = ?", order.NormalizePhone(phone))
	return findOne(q, (*models.CustomerModel).ToDomain)
}

// FindAllForStore lists a store's customers
func (r *GormCustomerRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]order.Customer, error) {
	var list []models.CustomerModel
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(StoreScope(storeID), customerSearch(filter), OrderBy(filter, customerSort), Paginate(filter)).
		Find(&list).Error; err != nil {
		return nil, err
	}
	customers := make([]order.Customer, len(list))
	for i := range list {
		customers[i] = *list[i].ToDomain()
	}
	return customers, nil
}

// CountForStore counts a store's customers
func (r *GormCustomerRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(StoreScope(storeID), customerSearch(filter)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *order.Customer) error {
	model := &models.CustomerModel{}
	model.FromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// UpsertForOrder records an order against the (store, phone) customer in one
// statement, so concurrent first orders from the same phone converge on a
// single row and no order's totals are lost. Blank contact fields keep the
// stored value.
func (r *GormCustomerRepository) UpsertForOrder(ctx context.Context, o *order.Order) (*order.Customer, error) {
	model := &models.CustomerModel{}
	model.FromDomain(order.CustomerForOrder(o))

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_id"}, {Name: "phone"}},
			DoUpdates: customerOrderAssignments,
		}).
		Create(model).Error
	if err != nil {
		return nil, err
	}
	return r.FindByPhone(ctx, model.StoreID, model.Phone)
}

var customerOrderAssignments = clause.Set{
	{Column: clause.Column{Name: "name"}, Value: gorm.Expr("COALESCE(NULLIF(excluded.name, ''), customers.name)")},
	{Column: clause.Column{Name: "email"}, Value: gorm.Expr("COALESCE(NULLIF(excluded.email, ''), customers.email)")},
	{Column: clause.Column{Name: "address"}, Value: gorm.Expr("COALESCE(NULLIF(excluded.address, ''), customers.address)")},
	{Column: clause.Column{Name: "total_orders"}, Value: gorm.Expr("customers.total_orders + excluded.total_orders")},
	{Column: clause.Column{Name: "total_spent"}, Value: gorm.Expr("customers.total_spent + excluded.total_spent")},
	{Column: clause.Column{Name: "last_order_at"}, Value: gorm.Expr("excluded.last_order_at")},
	{Column: clause.Column{Name: "version"}, Value: gorm.Expr("customers.version + 1")},
	{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
}

func customerSearch(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return Search(filter.Search, "name", "phone", "email")
}

// Ensure GormCustomerRepository implements order.CustomerRepository
var _ order.CustomerRepository = (*GormCustomerRepository)(nil)
