package handler

import (
	storeapp "github.com/bizgrow/backend/internal/application/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StoreHandler lets merchants create and manage their stores
type StoreHandler struct {
	BaseHandler
	storeService StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create godoc
// @ID           createStore
// @Summary      Create a store
// @Description  Creates a store owned by the caller. The slug is derived from the name when omitted.
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body storeapp.CreateStoreRequest true "Store details"
// @Success      201 {object} APIResponse[storeapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req storeapp.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, store)
}

// ListMine godoc
// @ID           listStores
// @Summary      List the caller's stores
// @Tags         stores
// @Produce      json
// @Success      200 {object} APIResponse[[]storeapp.StoreResponse]
// @Security     BearerAuth
// @Router       /stores [get]
func (h *StoreHandler) ListMine(c *gin.Context) {
	ownerID, ok := h.currentUser(c)
	if !ok {
		return
	}

	stores, err := h.storeService.ListMine(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stores)
}

// Get godoc
// @ID           getStore
// @Summary      Get a store
// @Tags         stores
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.StoreResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id} [get]
func (h *StoreHandler) Get(c *gin.Context) {
	ownerID, storeID, ok := h.ownerAndStore(c)
	if !ok {
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Update godoc
// @ID           updateStore
// @Summary      Update a store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        request body storeapp.UpdateStoreRequest true "Fields to change"
// @Success      200 {object} APIResponse[storeapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	ownerID, storeID, ok := h.ownerAndStore(c)
	if !ok {
		return
	}

	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), ownerID, storeID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Activate godoc
// @ID           activateStore
// @Summary      Open a store to shoppers
// @Tags         stores
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.StoreResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/activate [post]
func (h *StoreHandler) Activate(c *gin.Context) {
	ownerID, storeID, ok := h.ownerAndStore(c)
	if !ok {
		return
	}

	store, err := h.storeService.Activate(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// Deactivate godoc
// @ID           deactivateStore
// @Summary      Hide a store from shoppers
// @Tags         stores
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[storeapp.StoreResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/deactivate [post]
func (h *StoreHandler) Deactivate(c *gin.Context) {
	ownerID, storeID, ok := h.ownerAndStore(c)
	if !ok {
		return
	}

	store, err := h.storeService.Deactivate(c.Request.Context(), ownerID, storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, store)
}

// ownerAndStore resolves the caller and the store from the path
func (h *StoreHandler) ownerAndStore(c *gin.Context) (ownerID, storeID uuid.UUID, ok bool) {
	if ownerID, ok = h.currentUser(c); !ok {
		return
	}
	storeID, ok = h.currentStore(c)
	return
}
