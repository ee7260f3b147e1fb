package catalog

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines persistence for products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	FindByNames(ctx context.Context, storeID uuid.UUID, names []string) ([]Product, error)
	// FindAllForStore supports filters "category", "is_active" and Filter.Search on name/brand
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
	FindLowStock(ctx context.Context, storeID uuid.UUID, threshold, limit int) ([]Product, error)
	Categories(ctx context.Context, storeID uuid.UUID) ([]string, error)
	Save(ctx context.Context, p *Product) error
	SaveBatch(ctx context.Context, products []*Product) error
	DeleteForStore(ctx context.Context, storeID, id uuid.UUID) error
}

// CategoryImageRepository persists category image mappings
type CategoryImageRepository interface {
	FindByKey(ctx context.Context, key string) (*CategoryImage, error)
	Save(ctx context.Context, img *CategoryImage) error
}
