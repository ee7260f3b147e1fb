// Package shopping keeps signed-in shoppers' carts and wishlists and merges
// the state they built while anonymous.
package shopping

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/domain/shopping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrProductUnavailable is returned when adding a missing or inactive product
var ErrProductUnavailable = shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available")

// Repository is the combined cart and wishlist storage
type Repository interface {
	shopping.CartRepository
	shopping.WishlistRepository
}

// ShoppingService handles cart and wishlist operations
type ShoppingService struct {
	repo     Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewShoppingService creates a new ShoppingService
func NewShoppingService(repo Repository, products catalog.ProductRepository, logger *zap.Logger) *ShoppingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShoppingService{repo: repo, products: products, logger: logger}
}

// GetCart returns the cart. Lines whose product went away are kept but flagged unavailable.
func (s *ShoppingService) GetCart(ctx context.Context, userID, storeID uuid.UUID) (*CartResponse, error) {
	cart, err := s.repo.FindCart(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return s.cartResponse(ctx, cart)
}

// ReplaceCart overwrites the cart. Unknown or inactive products are dropped.
func (s *ShoppingService) ReplaceCart(ctx context.Context, userID, storeID uuid.UUID, req ReplaceCartRequest) (*CartResponse, error) {
	cart := shopping.NewCart(userID, storeID)
	for _, it := range req.Items {
		if err := cart.Add(it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}
	if _, err := s.retainAvailable(ctx, storeID, cart.ProductIDs(), cart.Retain); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.cartResponse(ctx, cart)
}

// AddItem adds quantity of a product, capped at the per-line maximum
func (s *ShoppingService) AddItem(ctx context.Context, userID, storeID uuid.UUID, req CartItemRequest) (*CartResponse, error) {
	if err := s.ensureAvailable(ctx, storeID, req.ProductID); err != nil {
		return nil, err
	}
	cart, err := s.repo.FindCart(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if err := cart.Add(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.cartResponse(ctx, cart)
}

// UpdateQuantity sets a line's quantity; zero removes it
func (s *ShoppingService) UpdateQuantity(ctx context.Context, userID, storeID, productID uuid.UUID, req UpdateQuantityRequest) (*CartResponse, error) {
	cart, err := s.repo.FindCart(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if err := cart.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.cartResponse(ctx, cart)
}

// RemoveItem drops a product from the cart
func (s *ShoppingService) RemoveItem(ctx context.Context, userID, storeID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.repo.FindCart(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	cart.Remove(productID)
	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.cartResponse(ctx, cart)
}

// ClearCart empties the cart, typically after checkout
func (s *ShoppingService) ClearCart(ctx context.Context, userID, storeID uuid.UUID) error {
	cart, err := s.repo.FindCart(ctx, userID, storeID)
	if err != nil {
		return err
	}
	cart.Clear()
	return s.repo.SaveCart(ctx, cart)
}

// GetWishlist returns the wishlist joined with product data
func (s *ShoppingService) GetWishlist(ctx context.Context, userID, storeID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.repo.FindWishlist(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return s.wishlistResponse(ctx, w)
}

// AddToWishlist adds a product. Adding twice is a no-op.
func (s *ShoppingService) AddToWishlist(ctx context.Context, userID, storeID uuid.UUID, req WishlistItemRequest) (*WishlistResponse, error) {
	if err := s.ensureAvailable(ctx, storeID, req.ProductID); err != nil {
		return nil, err
	}
	w, err := s.repo.FindWishlist(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if w.Add(req.ProductID) {
		if err := s.repo.SaveWishlist(ctx, w); err != nil {
			return nil, err
		}
	}
	return s.wishlistResponse(ctx, w)
}

// RemoveFromWishlist drops a product from the wishlist
func (s *ShoppingService) RemoveFromWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*WishlistResponse, error) {
	w, err := s.repo.FindWishlist(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if w.Contains(productID) {
		w.Remove(productID)
		if err := s.repo.SaveWishlist(ctx, w); err != nil {
			return nil, err
		}
	}
	return s.wishlistResponse(ctx, w)
}

// ToggleWishlist flips a product's membership
func (s *ShoppingService) ToggleWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*ToggleResponse, error) {
	w, err := s.repo.FindWishlist(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if !w.Contains(productID) {
		if err := s.ensureAvailable(ctx, storeID, productID); err != nil {
			return nil, err
		}
	}
	wishlisted := w.Toggle(productID)
	if err := s.repo.SaveWishlist(ctx, w); err != nil {
		return nil, err
	}
	return &ToggleResponse{ProductID: productID, Wishlisted: wishlisted}, nil
}

// Merge folds the device's local cart and wishlist into the stored ones.
// Cart lines in both keep the larger quantity, the wishlist becomes the union,
// and products that no longer exist or are inactive are dropped from both.
func (s *ShoppingService) Merge(ctx context.Context, userID uuid.UUID, local LocalState) (*MergeResponse, error) {
	cart, err := s.repo.FindCart(ctx, userID, local.StoreID)
	if err != nil {
		return nil, err
	}
	guest := make([]shopping.CartItem, 0, len(local.Cart))
	for _, it := range local.Cart {
		guest = append(guest, shopping.CartItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	cart.Merge(guest)

	w, err := s.repo.FindWishlist(ctx, userID, local.StoreID)
	if err != nil {
		return nil, err
	}
	w.Merge(local.Wishlist)

	ids := append(cart.ProductIDs(), w.ProductIDs...)
	available, err := s.availableSet(ctx, local.StoreID, ids)
	if err != nil {
		return nil, err
	}
	keep := func(id uuid.UUID) bool { return available[id] != nil }
	resp := &MergeResponse{
		DroppedCart:     cart.Retain(keep),
		DroppedWishlist: w.Retain(keep),
	}

	if err := s.repo.SaveCart(ctx, cart); err != nil {
		return nil, err
	}
	if err := s.repo.SaveWishlist(ctx, w); err != nil {
		return nil, err
	}

	resp.Cart = buildCartResponse(cart, available)
	resp.Wishlist = buildWishlistResponse(w, available)

	s.logger.Debug("merged local shopping state",
		zap.String("user_id", userID.String()),
		zap.String("store_id", local.StoreID.String()),
		zap.Int("dropped_cart", resp.DroppedCart),
		zap.Int("dropped_wishlist", resp.DroppedWishlist))
	return resp, nil
}

func (s *ShoppingService) ensureAvailable(ctx context.Context, storeID, productID uuid.UUID) error {
	p, err := s.products.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return ErrProductUnavailable
		}
		return err
	}
	if !p.IsActive {
		return ErrProductUnavailable
	}
	return nil
}

// availableSet loads the active products among ids, keyed by id
func (s *ShoppingService) availableSet(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*catalog.Product, error) {
	out := make(map[uuid.UUID]*catalog.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	products, err := s.products.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	for i := range products {
		if products[i].IsActive {
			out[products[i].ID] = &products[i]
		}
	}
	return out, nil
}

func (s *ShoppingService) retainAvailable(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID, retain func(func(uuid.UUID) bool) int) (int, error) {
	available, err := s.availableSet(ctx, storeID, ids)
	if err != nil {
		return 0, err
	}
	return retain(func(id uuid.UUID) bool { return available[id] != nil }), nil
}

func (s *ShoppingService) cartResponse(ctx context.Context, cart *shopping.Cart) (*CartResponse, error) {
	available, err := s.availableSet(ctx, cart.StoreID, cart.ProductIDs())
	if err != nil {
		return nil, err
	}
	return buildCartResponse(cart, available), nil
}

func (s *ShoppingService) wishlistResponse(ctx context.Context, w *shopping.Wishlist) (*WishlistResponse, error) {
	available, err := s.availableSet(ctx, w.StoreID, w.ProductIDs)
	if err != nil {
		return nil, err
	}
	return buildWishlistResponse(w, available), nil
}

func buildCartResponse(cart *shopping.Cart, available map[uuid.UUID]*catalog.Product) *CartResponse {
	resp := &CartResponse{
		StoreID:   cart.StoreID,
		Items:     make([]CartLineResponse, 0, len(cart.Items)),
		Subtotal:  decimal.Zero,
		UpdatedAt: cart.UpdatedAt,
	}
	for _, it := range cart.Items {
		line := CartLineResponse{ProductID: it.ProductID, Quantity: it.Quantity, AddedAt: it.AddedAt}
		if p, ok := available[it.ProductID]; ok {
			line.Name = p.Name
			line.Price = p.Price
			line.ImageURL = p.ImageURL
			line.Available = true
			line.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			resp.Subtotal = resp.Subtotal.Add(line.LineTotal)
			resp.TotalQuantity += it.Quantity
		}
		resp.Items = append(resp.Items, line)
	}
	return resp
}

func buildWishlistResponse(w *shopping.Wishlist, available map[uuid.UUID]*catalog.Product) *WishlistResponse {
	resp := &WishlistResponse{
		StoreID:   w.StoreID,
		Items:     make([]WishlistItemResponse, 0, len(w.ProductIDs)),
		UpdatedAt: w.UpdatedAt,
	}
	for _, id := range w.ProductIDs {
		item := WishlistItemResponse{ProductID: id}
		if p, ok := available[id]; ok {
			item.Name = p.Name
			item.Price = p.Price
			item.ImageURL = p.ImageURL
			item.Available = true
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
