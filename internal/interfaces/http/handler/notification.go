package handler

import (
	"net/http"
	"time"

	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/infrastructure/realtime"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler serves the merchant's notification bell and the live order feed
type NotificationHandler struct {
	BaseHandler
	notifications NotificationService
	hub           *realtime.Hub
	heartbeat     time.Duration
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifications NotificationService, hub *realtime.Hub, heartbeat time.Duration) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		hub:           hub,
		heartbeat:     heartbeat,
	}
}

// NotificationListQuery are the query parameters of the notification list
type NotificationListQuery struct {
	dto.ListRequest
	UnreadOnly bool `form:"unread_only"`
}

// List godoc
// @ID           listNotifications
// @Summary      List notifications
// @Tags         notifications
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        unread_only query bool false "Only unread"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]notificationapp.NotificationResponse]
// @Security     BearerAuth
// @Router       /stores/{store_id}/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var query NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.notifications.List(c.Request.Context(), storeID, query.UnreadOnly, query.ListRequest.Filter())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	paginated(c, page)
}

// UnreadCount godoc
// @ID           countUnreadNotifications
// @Summary      Unread notification count
// @Tags         notifications
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /stores/{store_id}/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// MarkRead godoc
// @ID           markNotificationRead
// @Summary      Mark a notification read
// @Tags         notifications
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        id path string true "Notification ID" format(uuid)
// @Success      200 {object} APIResponse[notificationapp.NotificationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	n, err := h.notifications.MarkRead(c.Request.Context(), storeID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, n)
}

// MarkAllRead godoc
// @ID           markAllNotificationsRead
// @Summary      Mark every notification read
// @Tags         notifications
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {object} APIResponse[CountData] "Number of notifications changed"
// @Security     BearerAuth
// @Router       /stores/{store_id}/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	count, err := h.notifications.MarkAllRead(c.Request.Context(), storeID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// Stream godoc
//
//	@ID				streamNotifications
//	@Summary		Live order feed over SSE
//	@Description	Sends a connected event, then new_order and order_status events for the store, with periodic heartbeats. EventSource clients pass the token as access_token.
//	@Tags			notifications
//	@Produce		text/event-stream
//	@Param			store_id		path	string	true	"Store ID"	format(uuid)
//	@Param			access_token	query	string	false	"Access token when no Authorization header can be sent"
//	@Success		200	{string}	string	"SSE stream"
//	@Failure		401	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stores/{store_id}/notifications/stream [get]
func (h *NotificationHandler) Stream(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	client, err := h.hub.Register(storeID, middleware.GetJWTUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer h.hub.Unregister(client)

	log := logger.GetGinLogger(c)
	if err := realtime.KeepStreamOpen(c.Writer); err != nil {
		log.Debug("write deadline left in place", zap.Error(err))
	}

	realtime.SetSSEHeaders(c.Writer.Header())
	c.Status(http.StatusOK)

	log.Debug("SSE client connected", zap.String("client_id", client.ID))
	if err := realtime.StreamSSE(c.Request.Context(), c.Writer, client, h.heartbeat); err != nil {
		log.Debug("SSE client disconnected", zap.String("client_id", client.ID), zap.Error(err))
		return
	}
	log.Debug("SSE client disconnected", zap.String("client_id", client.ID))
}

// WebSocket godoc
//
//	@ID				websocketNotifications
//	@Summary		Live order feed over WebSocket
//	@Description	Same events as the SSE stream, sent as JSON frames {"event": ..., "data": ...}
//	@Tags			notifications
//	@Param			store_id		path	string	true	"Store ID"	format(uuid)
//	@Param			access_token	query	string	false	"Access token when no Authorization header can be sent"
//	@Success		101
//	@Failure		401	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/stores/{store_id}/ws [get]
func (h *NotificationHandler) WebSocket(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	client, err := h.hub.Register(storeID, middleware.GetJWTUserID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	log := logger.GetGinLogger(c)
	if err := realtime.ServeWebSocket(c.Writer, c.Request, h.hub, client, h.heartbeat, log); err != nil {
		log.Debug("WebSocket closed", zap.Error(err))
	}
}
