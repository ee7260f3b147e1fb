package persistence

import (
	"context"
	"time"

	"github.com/bizgrow/backend/internal/domain/shopping"
	"github.com/bizgrow/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormShoppingRepository implements the cart and wishlist repositories using GORM.
// Both are stored as one row per product and rewritten wholesale on save.
type GormShoppingRepository struct {
	db *gorm.DB
}

// NewGormShoppingRepository creates a new GormShoppingRepository
func NewGormShoppingRepository(db *gorm.DB) *GormShoppingRepository {
	return &GormShoppingRepository{db: db}
}

// FindCart loads a user's cart for a store, empty if none exists
func (r *GormShoppingRepository) FindCart(ctx context.Context, userID, storeID uuid.UUID) (*shopping.Cart, error) {
	var rows []models.CartItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Order("added_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	cart := shopping.NewCart(userID, storeID)
	for i, row := range rows {
		cart.Items = append(cart.Items, shopping.CartItem{
			ProductID: row.ProductID,
			Quantity:  row.Quantity,
			AddedAt:   row.AddedAt,
		})
		if i == 0 || row.UpdatedAt.After(cart.UpdatedAt) {
			cart.UpdatedAt = row.UpdatedAt
		}
	}
	return cart, nil
}

// SaveCart replaces the stored lines with the cart's current lines
func (r *GormShoppingRepository) SaveCart(ctx context.Context, c *shopping.Cart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND store_id = ?", c.UserID, c.StoreID).
			Delete(&models.CartItemModel{}).Error; err != nil {
			return err
		}
		if len(c.Items) == 0 {
			return nil
		}
		updated := c.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		rows := make([]models.CartItemModel, len(c.Items))
		for i, it := range c.Items {
			rows[i] = models.CartItemModel{
				UserID:    c.UserID,
				StoreID:   c.StoreID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				AddedAt:   it.AddedAt,
				UpdatedAt: updated,
			}
		}
		return tx.Create(&rows).Error
	})
}

// FindWishlist loads a user's wishlist for a store, empty if none exists
func (r *GormShoppingRepository) FindWishlist(ctx context.Context, userID, storeID uuid.UUID) (*shopping.Wishlist, error) {
	var rows []models.WishlistItemModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		Order("position ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	w := shopping.NewWishlist(userID, storeID)
	for _, row := range rows {
		w.ProductIDs = append(w.ProductIDs, row.ProductID)
	}
	return w, nil
}

// SaveWishlist replaces the stored products with the wishlist's current products
func (r *GormShoppingRepository) SaveWishlist(ctx context.Context, w *shopping.Wishlist) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND store_id = ?", w.UserID, w.StoreID).
			Delete(&models.WishlistItemModel{}).Error; err != nil {
			return err
		}
		if len(w.ProductIDs) == 0 {
			return nil
		}
		now := time.Now()
		rows := make([]models.WishlistItemModel, len(w.ProductIDs))
		for i, id := range w.ProductIDs {
			rows[i] = models.WishlistItemModel{
				UserID:    w.UserID,
				StoreID:   w.StoreID,
				ProductID: id,
				Position:  i,
				CreatedAt: now,
			}
		}
		return tx.Create(&rows).Error
	})
}

// Ensure GormShoppingRepository implements the shopping repositories
var (
	_ shopping.CartRepository     = (*GormShoppingRepository)(nil)
	_ shopping.WishlistRepository = (*GormShoppingRepository)(nil)
)
