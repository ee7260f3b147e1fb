package persistence

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStoreRepository implements store.Repository using GORM
type GormStoreRepository struct {
	db *gorm.DB
}

// NewGormStoreRepository creates a new GormStoreRepository
func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// FindByID finds a store by its ID
func (r *GormStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*store.Store, error) {
	return findOne(r.db.WithContext(ctx).Where("id = ?", id), (*models.StoreModel).ToDomain)
}

// FindBySlug finds a store by its public slug
func (r *GormStoreRepository) FindBySlug(ctx context.Context, slug string) (*store.Store, error) {
	return findOne(r.db.WithContext(ctx).Where("slug = ?", slug), (*models.StoreModel).ToDomain)
}

// FindByOwner lists the stores owned by a merchant
func (r *GormStoreRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]store.Store, error) {
	var list []models.StoreModel
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	stores := make([]store.Store, len(list))
	for i := range list {
		stores[i] = *list[i].ToDomain()
	}
	return stores, nil
}

// ExistsBySlug checks whether a slug is taken
func (r *GormStoreRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.StoreModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a store
func (r *GormStoreRepository) Save(ctx context.Context, s *store.Store) error {
	return r.db.WithContext(ctx).Save(models.StoreModelFromDomain(s)).Error
}

// Ensure GormStoreRepository implements store.Repository
var _ store.Repository = (*GormStoreRepository)(nil)
