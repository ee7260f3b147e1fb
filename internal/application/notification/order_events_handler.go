package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// OrderEventsHandler pushes order events to open dashboards and, when configured,
// forwards them to the message broker. Dashboards refetch on receipt.
type OrderEventsHandler struct {
	live      LivePublisher
	forwarder EventForwarder
	logger    *zap.Logger
}

// NewOrderEventsHandler creates a handler publishing to live
func NewOrderEventsHandler(live LivePublisher, logger *zap.Logger) *OrderEventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderEventsHandler{live: live, logger: logger}
}

// WithForwarder sets the broker forwarder
func (h *OrderEventsHandler) WithForwarder(f EventForwarder) *OrderEventsHandler {
	h.forwarder = f
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *OrderEventsHandler) EventTypes() []string {
	return []string{order.EventTypeOrderCreated, order.EventTypeOrderStatusChanged}
}

// Handle publishes the live event first; a broker failure does not stop the live push
func (h *OrderEventsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	live, err := toLiveEvent(event)
	if err != nil {
		h.logger.Error("unexpected event type", zap.String("actual", event.EventType()))
		return err
	}

	var errs []error
	if h.live != nil {
		if err := h.live.PublishLive(ctx, live); err != nil {
			errs = append(errs, fmt.Errorf("live publish: %w", err))
		}
	}
	if h.forwarder != nil {
		if err := h.forwarder.Forward(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("forward: %w", err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	h.logger.Debug("order event delivered",
		zap.String("event_type", event.EventType()),
		zap.String("store_id", event.StoreID().String()))
	return nil
}

func toLiveEvent(event shared.DomainEvent) (LiveEvent, error) {
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		total := valueobject.NewMoneyINR(e.Total).Format()
		return LiveEvent{
			Type:        LiveEventOrderCreated,
			StoreID:     e.StoreID(),
			OrderID:     &e.OrderID,
			OrderNumber: e.OrderNumber,
			Title:       "New order " + e.OrderNumber,
			Message:     fmt.Sprintf("%s ordered %d item(s) for %s", e.CustomerName, e.ItemCount, total),
			Total:       total,
			At:          e.OccurredAt(),
		}, nil
	case *order.OrderStatusChangedEvent:
		return LiveEvent{
			Type:        LiveEventOrderUpdated,
			StoreID:     e.StoreID(),
			OrderID:     &e.OrderID,
			OrderNumber: e.OrderNumber,
			Title:       "Order " + e.OrderNumber + " " + string(e.To),
			Message:     fmt.Sprintf("Status changed from %s to %s", e.From, e.To),
			At:          e.OccurredAt(),
		}, nil
	}
	return LiveEvent{}, fmt.Errorf("unexpected event type: %s", event.EventType())
}

// ImportResultHandler leaves a notification when a product CSV import completes
type ImportResultHandler struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewImportResultHandler creates a new ImportResultHandler
func NewImportResultHandler(repo notification.Repository, logger *zap.Logger) *ImportResultHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportResultHandler{repo: repo, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ImportResultHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductsImported}
}

// Handle saves an import_result notification
func (h *ImportResultHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.ProductsImportedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeProductsImported, event.EventType())
	}
	n, err := notification.New(e.StoreID(), notification.TypeImportResult, "Product import finished",
		fmt.Sprintf("%d products added, %d updated", e.Imported, e.Updated))
	if err != nil {
		return err
	}
	return h.repo.Save(ctx, n)
}

var (
	_ shared.EventHandler = (*OrderEventsHandler)(nil)
	_ shared.EventHandler = (*ImportResultHandler)(nil)
)
