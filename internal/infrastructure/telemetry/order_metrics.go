package telemetry

import (
	"context"
	"fmt"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
var (
	AttrStoreID      = attribute.Key("store_id")
	AttrDeliveryMode = attribute.Key("delivery_mode")
	AttrFromStatus   = attribute.Key("from_status")
	AttrToStatus     = attribute.Key("to_status")
)

// OrderMetrics turns order events into business metrics. It is registered
// on the event bus so the order service stays free of metric calls.
type OrderMetrics struct {
	ordersCreated metric.Int64Counter
	orderValue    metric.Float64Histogram
	orderItems    metric.Int64Histogram
	statusChanges metric.Int64Counter
}

// NewOrderMetrics registers the order instruments on meter
func NewOrderMetrics(meter metric.Meter) (*OrderMetrics, error) {
	created, err := meter.Int64Counter("bizgrow.orders.created",
		metric.WithDescription("Storefront orders placed"),
		metric.WithUnit("{order}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create orders counter: %w", err)
	}
	value, err := meter.Float64Histogram("bizgrow.orders.value",
		metric.WithDescription("Order total in rupees"),
		metric.WithUnit("INR"),
		metric.WithExplicitBucketBoundaries(100, 250, 500, 1000, 2500, 5000, 10000, 25000))
	if err != nil {
		return nil, fmt.Errorf("failed to create order value histogram: %w", err)
	}
	items, err := meter.Int64Histogram("bizgrow.orders.items",
		metric.WithDescription("Units per order"),
		metric.WithUnit("{item}"),
		metric.WithExplicitBucketBoundaries(1, 2, 5, 10, 20, 50))
	if err != nil {
		return nil, fmt.Errorf("failed to create order items histogram: %w", err)
	}
	changes, err := meter.Int64Counter("bizgrow.orders.status_changes",
		metric.WithDescription("Order status transitions made by merchants"),
		metric.WithUnit("{transition}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create status change counter: %w", err)
	}

	return &OrderMetrics{
		ordersCreated: created,
		orderValue:    value,
		orderItems:    items,
		statusChanges: changes,
	}, nil
}

// EventTypes implements shared.EventHandler
func (m *OrderMetrics) EventTypes() []string {
	return []string{order.EventTypeOrderCreated, order.EventTypeOrderStatusChanged}
}

// Handle implements shared.EventHandler
func (m *OrderMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderCreatedEvent:
		attrs := metric.WithAttributes(
			AttrStoreID.String(e.StoreID().String()),
			AttrDeliveryMode.String(string(e.DeliveryMode)),
		)
		m.ordersCreated.Add(ctx, 1, attrs)
		m.orderValue.Record(ctx, e.Total.InexactFloat64(), attrs)
		m.orderItems.Record(ctx, int64(e.ItemCount), attrs)
	case *order.OrderStatusChangedEvent:
		m.statusChanges.Add(ctx, 1, metric.WithAttributes(
			AttrStoreID.String(e.StoreID().String()),
			AttrFromStatus.String(string(e.From)),
			AttrToStatus.String(string(e.To)),
		))
	}
	return nil
}
