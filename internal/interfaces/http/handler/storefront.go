package handler

import (
	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	orderapp "github.com/bizgrow/backend/internal/application/order"
	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the public shop pages and checkout
type StorefrontHandler struct {
	BaseHandler
	stores   StoreService
	products ProductService
	orders   OrderService
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(stores StoreService, products ProductService, orders OrderService) *StorefrontHandler {
	return &StorefrontHandler{stores: stores, products: products, orders: orders}
}

// GetStore godoc
// @ID           getStorefront
// @Summary      Public store page
// @Description  Looks up an active store by its slug
// @Tags         storefront
// @Produce      json
// @Param        slug path string true "Store slug"
// @Success      200 {object} APIResponse[storeapp.PublicStoreResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /storefront/stores/{slug} [get]
func (h *StorefrontHandler) GetStore(c *gin.Context) {
	store, err := h.stores.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// ListProducts godoc
// @ID           listStorefrontProducts
// @Summary      Products on sale
// @Description  Lists the active products of a store
// @Tags         storefront
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Param        search query string false "Name, brand or description contains"
// @Param        category query string false "Exact category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(name, price, created_at)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /storefront/products [get]
func (h *StorefrontHandler) ListProducts(c *gin.Context) {
	storeID, ok := h.uuidQuery(c, "store_id")
	if !ok {
		return
	}

	var query catalogapp.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	query.IsActive = nil

	page, err := h.products.ListPublic(c.Request.Context(), storeID, query.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	paginated(c, page)
}

// GetProduct godoc
// @ID           getStorefrontProduct
// @Summary      Product detail
// @Tags         storefront
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /storefront/products/{id} [get]
func (h *StorefrontHandler) GetProduct(c *gin.Context) {
	storeID, ok := h.uuidQuery(c, "store_id")
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.products.GetPublic(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Categories godoc
// @ID           listStorefrontCategories
// @Summary      Categories of a store
// @Tags         storefront
// @Produce      json
// @Param        store_id query string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[[]string]
// @Router       /storefront/categories [get]
func (h *StorefrontHandler) Categories(c *gin.Context) {
	storeID, ok := h.uuidQuery(c, "store_id")
	if !ok {
		return
	}

	categories, err := h.products.Categories(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categories)
}

// CreateOrder godoc
// @ID           createStorefrontOrder
// @Summary      Place an order
// @Description  Checks out a cart as a guest or signed-in shopper. Prices are re-read from the catalog. Retrying with the same Idempotency-Key returns the first order.
// @Tags         storefront
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Client generated key, at most 128 characters"
// @Param        request body orderapp.CreateOrderRequest true "Checkout"
// @Success      201 {object} APIResponse[orderapp.CreateOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /storefront/orders [post]
func (h *StorefrontHandler) CreateOrder(c *gin.Context) {
	var req orderapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orders.CreateOrder(c.Request.Context(), req, idempotencyKey(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}
