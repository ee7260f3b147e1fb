package shopping

import (
	"context"

	"github.com/google/uuid"
)

// CartRepository persists carts. FindCart returns an empty cart when none exists.
type CartRepository interface {
	FindCart(ctx context.Context, userID, storeID uuid.UUID) (*Cart, error)
	SaveCart(ctx context.Context, c *Cart) error
}

// WishlistRepository persists wishlists. FindWishlist returns an empty wishlist when none exists.
type WishlistRepository interface {
	FindWishlist(ctx context.Context, userID, storeID uuid.UUID) (*Wishlist, error)
	SaveWishlist(ctx context.Context, w *Wishlist) error
}
