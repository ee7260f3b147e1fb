package handler

import (
	shoppingapp "github.com/bizgrow/backend/internal/application/shopping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ShoppingHandler serves signed-in shoppers' carts and wishlists.
// Every route is scoped to one store through ?store_id=.
type ShoppingHandler struct {
	BaseHandler
	shopping ShoppingService
}

// NewShoppingHandler creates a new ShoppingHandler
func NewShoppingHandler(shopping ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shopping: shopping}
}

// scope resolves the shopper and the store query parameter
func (h *ShoppingHandler) scope(c *gin.Context) (userID, storeID uuid.UUID, ok bool) {
	if userID, ok = h.currentUser(c); !ok {
		return
	}
	storeID, ok = h.uuidQuery(c, "store_id")
	return
}

// GetCart godoc
// @ID           getCart
// @Summary      Current cart
// @Description  Lines are joined with current product data; lines whose product is gone are dropped
// @Tags         cart
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[shoppingapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart [get]
func (h *ShoppingHandler) GetCart(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	cart, err := h.shopping.GetCart(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// ReplaceCart godoc
// @ID           replaceCart
// @Summary      Replace the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body shoppingapp.ReplaceCartRequest true "All cart lines"
// @Success      200 {object} APIResponse[shoppingapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [put]
func (h *ShoppingHandler) ReplaceCart(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	var req shoppingapp.ReplaceCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cart, err := h.shopping.ReplaceCart(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// ClearCart godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /cart [delete]
func (h *ShoppingHandler) ClearCart(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	if err := h.shopping.ClearCart(c.Request.Context(), userID, storeID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem godoc
// @ID           addCartItem
// @Summary      Add to cart
// @Description  Adds the quantity to an existing line or creates one
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body shoppingapp.CartItemRequest true "Line"
// @Success      200 {object} APIResponse[shoppingapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items [post]
func (h *ShoppingHandler) AddItem(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	var req shoppingapp.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cart, err := h.shopping.AddItem(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// UpdateQuantity godoc
// @ID           updateCartItem
// @Summary      Set a line's quantity
// @Description  Zero removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        request body shoppingapp.UpdateQuantityRequest true "Quantity"
// @Success      200 {object} APIResponse[shoppingapp.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/items/{product_id} [patch]
func (h *ShoppingHandler) UpdateQuantity(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	var req shoppingapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cart, err := h.shopping.UpdateQuantity(c.Request.Context(), userID, storeID, productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @ID           removeCartItem
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[shoppingapp.CartResponse]
// @Security     BearerAuth
// @Router       /cart/items/{product_id} [delete]
func (h *ShoppingHandler) RemoveItem(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	cart, err := h.shopping.RemoveItem(c.Request.Context(), userID, storeID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// GetWishlist godoc
// @ID           getWishlist
// @Summary      Current wishlist
// @Tags         wishlist
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[shoppingapp.WishlistResponse]
// @Security     BearerAuth
// @Router       /wishlist [get]
func (h *ShoppingHandler) GetWishlist(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	wishlist, err := h.shopping.GetWishlist(c.Request.Context(), userID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// AddToWishlist godoc
// @ID           addWishlistItem
// @Summary      Save a product
// @Tags         wishlist
// @Accept       json
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        request body shoppingapp.WishlistItemRequest true "Product"
// @Success      200 {object} APIResponse[shoppingapp.WishlistResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /wishlist/items [post]
func (h *ShoppingHandler) AddToWishlist(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}

	var req shoppingapp.WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	wishlist, err := h.shopping.AddToWishlist(c.Request.Context(), userID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// RemoveFromWishlist godoc
// @ID           removeWishlistItem
// @Summary      Forget a saved product
// @Tags         wishlist
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[shoppingapp.WishlistResponse]
// @Security     BearerAuth
// @Router       /wishlist/items/{product_id} [delete]
func (h *ShoppingHandler) RemoveFromWishlist(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	wishlist, err := h.shopping.RemoveFromWishlist(c.Request.Context(), userID, storeID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, wishlist)
}

// ToggleWishlist godoc
// @ID           toggleWishlistItem
// @Summary      Toggle a saved product
// @Tags         wishlist
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[shoppingapp.ToggleResponse]
// @Security     BearerAuth
// @Router       /wishlist/items/{product_id}/toggle [post]
func (h *ShoppingHandler) ToggleWishlist(c *gin.Context) {
	userID, storeID, ok := h.scope(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "product_id")
	if !ok {
		return
	}

	toggled, err := h.shopping.ToggleWishlist(c.Request.Context(), userID, storeID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, toggled)
}

// Merge godoc
// @ID           mergeShoppingState
// @Summary      Merge a device's anonymous cart and wishlist
// @Description  Quantities of lines present on both sides are added and capped; unavailable products are dropped
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body shoppingapp.LocalState true "Device state"
// @Success      200 {object} APIResponse[shoppingapp.MergeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /shopping/merge [post]
func (h *ShoppingHandler) Merge(c *gin.Context) {
	userID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req shoppingapp.LocalState
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	merged, err := h.shopping.Merge(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, merged)
}
