package shopping

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one cart line sent by the client
type CartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1,max=99"`
}

// ReplaceCartRequest replaces the whole cart
type ReplaceCartRequest struct {
	Items []CartItemRequest `json:"items" binding:"dive"`
}

// UpdateQuantityRequest sets one line's quantity. Zero removes the line.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"min=0,max=99"`
}

// WishlistItemRequest adds a product to the wishlist
type WishlistItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
}

// LocalState is the cart and wishlist an anonymous client kept on the device
type LocalState struct {
	StoreID  uuid.UUID         `json:"store_id" binding:"required"`
	Cart     []CartItemRequest `json:"cart" binding:"omitempty,dive"`
	Wishlist []uuid.UUID       `json:"wishlist"`
}

// CartLineResponse is a cart line joined with the current product data
type CartLineResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
	Available bool            `json:"available"`
	AddedAt   time.Time       `json:"added_at"`
}

// CartResponse is a cart with totals over available lines
type CartResponse struct {
	StoreID       uuid.UUID          `json:"store_id"`
	Items         []CartLineResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// WishlistItemResponse is a wishlisted product
type WishlistItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"`
	Available bool            `json:"available"`
}

// WishlistResponse is a wishlist joined with product data
type WishlistResponse struct {
	StoreID   uuid.UUID              `json:"store_id"`
	Items     []WishlistItemResponse `json:"items"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ToggleResponse reports wishlist membership after a toggle
type ToggleResponse struct {
	ProductID  uuid.UUID `json:"product_id"`
	Wishlisted bool      `json:"wishlisted"`
}

// MergeResponse is the state after merging local data on login
type MergeResponse struct {
	Cart            *CartResponse     `json:"cart"`
	Wishlist        *WishlistResponse `json:"wishlist"`
	DroppedCart     int               `json:"dropped_cart_items"`
	DroppedWishlist int               `json:"dropped_wishlist_items"`
}
