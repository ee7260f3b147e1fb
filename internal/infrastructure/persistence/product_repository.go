package persistence

import (
	"context"
	"strings"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductBatchSize is the number of rows written per statement by SaveBatch
const ProductBatchSize = 100

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return findOne(r.db.WithContext(ctx).Where("id = ?", id), (*models.ProductModel).ToDomain)
}

// FindByIDForStore finds a product by ID within a store
func (r *GormProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	q := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id = ?", id)
	return findOne(q, (*models.ProductModel).ToDomain)
}

// FindByIDs finds multiple products of a store by ID
func (r *GormProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var list []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toProducts(list), nil
}

// FindByNames finds products of a store whose name matches case-insensitively
func (r *GormProductRepository) FindByNames(ctx context.Context, storeID uuid.UUID, names []string) ([]catalog.Product, error) {
	if len(names) == 0 {
		return []catalog.Product{}, nil
	}
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(strings.TrimSpace(n))
	}
	var list []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("LOWER(name) IN ?", lowered).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toProducts(list), nil
}

// FindAllForStore lists a store's products
func (r *GormProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var list []models.ProductModel
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID), r.filterScope(filter), OrderBy(filter, productSort), Paginate(filter)).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toProducts(list), nil
}

// CountForStore counts a store's products matching the filter
func (r *GormProductRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID), r.filterScope(filter)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindLowStock lists active products at or below the threshold, lowest stock first
func (r *GormProductRepository) FindLowStock(ctx context.Context, storeID uuid.UUID, threshold, limit int) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	var list []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Where("is_active = ? AND stock <= ?", true, threshold).
		Order("stock ASC").
		Order("name ASC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return toProducts(list), nil
}

// Categories lists the distinct non-empty categories used by a store
func (r *GormProductRepository) Categories(ctx context.Context, storeID uuid.UUID) ([]string, error) {
	var categories []string
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(StoreScope(storeID)).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Save(models.ProductModelFromDomain(p)).Error
}

// SaveBatch creates or updates products in chunks inside one transaction
func (r *GormProductRepository) SaveBatch(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(products); start += ProductBatchSize {
			end := min(start+ProductBatchSize, len(products))
			batch := make([]*models.ProductModel, 0, end-start)
			for _, p := range products[start:end] {
				batch = append(batch, models.ProductModelFromDomain(p))
			}
			if err := tx.Save(batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForStore deletes a product within a store
func (r *GormProductRepository) DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) filterScope(filter shared.Filter) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = Search(filter.Search, "name", "brand")(db)
		if category, ok := filterString(filter, "category"); ok {
			db = db.Where("LOWER(category) = ?", strings.ToLower(catalog.NormalizeCategory(category)))
		}
		if active, ok := filterBool(filter, "is_active"); ok {
			db = db.Where("is_active = ?", active)
		}
		return db
	}
}

func toProducts(list []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(list))
	for i := range list {
		products[i] = *list[i].ToDomain()
	}
	return products
}

// Ensure GormProductRepository implements catalog.ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
