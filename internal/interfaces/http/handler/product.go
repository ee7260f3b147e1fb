package handler

import (
	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

const (
	defaultLowStockLimit = 10
	maxLowStockLimit     = 50
)

// ProductHandler serves a merchant's catalog
type ProductHandler struct {
	BaseHandler
	productService ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Lists the store's products, active or not, with search and category filters
// @Tags         products
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        search query string false "Name, brand or description contains"
// @Param        category query string false "Exact category"
// @Param        is_active query bool false "Only active or inactive products"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Sort field" Enums(name, price, created_at, updated_at, stock, category, brand)
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var query catalogapp.ProductListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), storeID, query.ToFilter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	paginated(c, page)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), storeID, id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// LowStock godoc
// @ID           listLowStockProducts
// @Summary      Products running out
// @Tags         products
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        limit query int false "Maximum rows" default(10) maximum(50)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/low-stock [get]
func (h *ProductHandler) LowStock(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	products, err := h.productService.LowStock(c.Request.Context(), storeID, limitQuery(c, defaultLowStockLimit, maxLowStockLimit))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// Categories godoc
// @ID           listProductCategories
// @Summary      Categories in use
// @Tags         products
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[[]string]
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/categories [get]
func (h *ProductHandler) Categories(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	categories, err := h.productService.Categories(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categories)
}

// CreateUploadURL godoc
// @ID           createProductUploadURL
// @Summary      Presign a product image upload
// @Description  Returns a short-lived PUT URL for the object store and the public URL the image will be served from
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        request body catalogapp.UploadURLRequest true "File to upload"
// @Success      200 {object} APIResponse[catalogapp.UploadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/upload-url [post]
func (h *ProductHandler) CreateUploadURL(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var req catalogapp.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	upload, err := h.productService.CreateUploadURL(c.Request.Context(), storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, upload)
}
