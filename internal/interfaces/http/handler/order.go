package handler

import (
	"net/http"

	orderapp "github.com/bizgrow/backend/internal/application/order"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// OrderHandler serves a store's orders and customers to its owner
type OrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @ID           listOrders
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, confirmed, shipped, delivered, cancelled)
// @Param        from query string false "Placed on or after (YYYY-MM-DD)"
// @Param        to query string false "Placed on or before (YYYY-MM-DD)"
// @Param        search query string false "Order number, customer name or phone"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var query orderapp.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	paginated(c, page)
}

// GetByID godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateStatus godoc
// @ID           updateOrderStatus
// @Summary      Move an order along
// @Description  pending to confirmed to shipped to delivered; pending and confirmed orders can be cancelled, which restocks their products
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body orderapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	order, err := h.orderService.UpdateStatus(c.Request.Context(), storeID, id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Invoice godoc
// @ID           getOrderInvoice
// @Summary      Download the invoice
// @Description  A PDF when the renderer is available, otherwise printable HTML
// @Tags         orders
// @Produce      application/pdf
// @Produce      text/html
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	body, contentType, err := h.orderService.Invoice(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	ext := "html"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	setAttachment(c, "invoice-"+id.String()[:8], ext, contentType)
	c.Data(http.StatusOK, contentType, body)
}

// Export godoc
// @ID           exportOrders
// @Summary      Export orders as CSV
// @Description  Accepts the same filters as the order list; paging is ignored
// @Tags         orders
// @Produce      text/csv
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, confirmed, shipped, delivered, cancelled)
// @Param        from query string false "Placed on or after (YYYY-MM-DD)"
// @Param        to query string false "Placed on or before (YYYY-MM-DD)"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/orders/export [get]
func (h *OrderHandler) Export(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var query orderapp.OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	setAttachment(c, "orders", "csv", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.orderService.ExportOrders(c.Request.Context(), storeID, filter, c.Writer); err != nil {
		logger.GetGinLogger(c).Error("Order export failed", zap.Error(err))
	}
}

// ListCustomers godoc
// @ID           listCustomers
// @Summary      Customers of a store
// @Description  Shoppers aggregated from orders by phone number, with order count and lifetime spend
// @Tags         customers
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        search query string false "Name or phone contains"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]orderapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/customers [get]
func (h *OrderHandler) ListCustomers(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.orderService.ListCustomers(c.Request.Context(), storeID, query.Filter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	paginated(c, page)
}
