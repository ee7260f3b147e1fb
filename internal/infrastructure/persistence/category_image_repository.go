package persistence

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryImageRepository implements catalog.CategoryImageRepository using GORM
type GormCategoryImageRepository struct {
	db *gorm.DB
}

// NewGormCategoryImageRepository creates a new GormCategoryImageRepository
func NewGormCategoryImageRepository(db *gorm.DB) *GormCategoryImageRepository {
	return &GormCategoryImageRepository{db: db}
}

// FindByKey looks up the mapping for a category key
func (r *GormCategoryImageRepository) FindByKey(ctx context.Context, key string) (*catalog.CategoryImage, error) {
	return findOne(r.db.WithContext(ctx).Where("category_key = ?", key), (*models.CategoryImageModel).ToDomain)
}

// Save inserts the mapping, replacing the image of an existing key
func (r *GormCategoryImageRepository) Save(ctx context.Context, img *catalog.CategoryImage) error {
	model := &models.CategoryImageModel{}
	model.FromDomain(img)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "category_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"category_name", "image_url", "object_key", "updated_at"}),
		}).
		Create(model).Error
}

// Ensure GormCategoryImageRepository implements catalog.CategoryImageRepository
var _ catalog.CategoryImageRepository = (*GormCategoryImageRepository)(nil)
