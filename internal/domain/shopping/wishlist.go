package shopping

import (
	"time"

	"github.com/google/uuid"
)

// Wishlist is a user's set of favorite products for a single store
type Wishlist struct {
	UserID     uuid.UUID
	StoreID    uuid.UUID
	ProductIDs []uuid.UUID
	UpdatedAt  time.Time
}

// NewWishlist creates an empty wishlist
func NewWishlist(userID, storeID uuid.UUID) *Wishlist {
	return &Wishlist{UserID: userID, StoreID: storeID, ProductIDs: []uuid.UUID{}, UpdatedAt: time.Now()}
}

// Contains reports whether the product is in the wishlist
func (w *Wishlist) Contains(productID uuid.UUID) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// Add inserts a product; returns false if it was already present
func (w *Wishlist) Add(productID uuid.UUID) bool {
	if w.Contains(productID) {
		return false
	}
	w.ProductIDs = append(w.ProductIDs, productID)
	w.UpdatedAt = time.Now()
	return true
}

// Toggle adds a missing product or removes a present one and reports the new membership
func (w *Wishlist) Toggle(productID uuid.UUID) bool {
	if w.Contains(productID) {
		w.Remove(productID)
		return false
	}
	w.Add(productID)
	return true
}

// Remove drops a product from the wishlist
func (w *Wishlist) Remove(productID uuid.UUID) {
	out := w.ProductIDs[:0]
	for _, id := range w.ProductIDs {
		if id != productID {
			out = append(out, id)
		}
	}
	w.ProductIDs = out
	w.UpdatedAt = time.Now()
}

// Merge unions a guest wishlist into this one, keeping existing order first
func (w *Wishlist) Merge(guest []uuid.UUID) {
	for _, id := range guest {
		w.Add(id)
	}
}

// Retain keeps only products that pass keep
func (w *Wishlist) Retain(keep func(productID uuid.UUID) bool) int {
	out := w.ProductIDs[:0]
	dropped := 0
	for _, id := range w.ProductIDs {
		if keep(id) {
			out = append(out, id)
		} else {
			dropped++
		}
	}
	w.ProductIDs = out
	return dropped
}
