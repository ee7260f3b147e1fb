package handler

import (
	"github.com/gin-gonic/gin"
)

const (
	defaultWidgetLimit = 5
	maxWidgetLimit     = 50
)

// DashboardHandler serves the merchant dashboard widgets
type DashboardHandler struct {
	BaseHandler
	dashboard DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboard DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// Overview godoc
// @ID           getDashboardOverview
// @Summary      Every widget in one call
// @Tags         dashboard
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        limit query int false "Rows per list widget" default(5) maximum(50)
// @Success      200 {object} APIResponse[dashboardapp.OverviewResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	overview, err := h.dashboard.Overview(c.Request.Context(), storeID, limitQuery(c, defaultWidgetLimit, maxWidgetLimit))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, overview)
}

// Stats godoc
// @ID           getDashboardStats
// @Summary      Stats cards
// @Description  Revenue excludes cancelled orders; today is counted in IST
// @Tags         dashboard
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[dashboardapp.StatsResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	stats, err := h.dashboard.Stats(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// RecentOrders godoc
// @ID           getDashboardRecentOrders
// @Summary      Latest orders
// @Tags         dashboard
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        limit query int false "Rows" default(5) maximum(50)
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/dashboard/recent-orders [get]
func (h *DashboardHandler) RecentOrders(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	orders, err := h.dashboard.RecentOrders(c.Request.Context(), storeID, limitQuery(c, defaultWidgetLimit, maxWidgetLimit))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, orders)
}

// TopProducts godoc
// @ID           getDashboardTopProducts
// @Summary      Best sellers
// @Tags         dashboard
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        limit query int false "Rows" default(5) maximum(50)
// @Success      200 {object} APIResponse[[]dashboardapp.TopProductResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	products, err := h.dashboard.TopProducts(c.Request.Context(), storeID, limitQuery(c, defaultWidgetLimit, maxWidgetLimit))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// LowStock godoc
// @ID           getDashboardLowStock
// @Summary      Products running out
// @Tags         dashboard
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        limit query int false "Rows" default(5) maximum(50)
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	products, err := h.dashboard.LowStock(c.Request.Context(), storeID, limitQuery(c, defaultWidgetLimit, maxWidgetLimit))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}
