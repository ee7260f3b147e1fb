// Package order places storefront orders and serves the merchant's order views.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/notification"
	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/domain/shared/valueobject"
	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/bizgrow/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrStoreUnavailable is returned when checkout targets a missing or inactive store
	ErrStoreUnavailable = shared.NewDomainError("NOT_FOUND", "Store not found or not accepting orders")
	// ErrRequestInProgress is returned while an earlier request with the same idempotency key is running
	ErrRequestInProgress = shared.NewDomainError("REQUEST_IN_PROGRESS", "An order with this idempotency key is already being placed")
)

// OrderService handles checkout and the merchant's order operations
type OrderService struct {
	stores      store.Repository
	products    catalog.ProductRepository
	orders      order.Repository
	customers   order.CustomerRepository
	txScope     TransactionScope
	events      shared.EventPublisher
	idempotency shared.IdempotencyStore
	invoices    InvoiceRenderer
	logger      *zap.Logger
}

// OrderServiceOption configures optional collaborators
type OrderServiceOption func(*OrderService)

// WithIdempotencyStore enables Idempotency-Key deduplication on CreateOrder
func WithIdempotencyStore(s shared.IdempotencyStore) OrderServiceOption {
	return func(svc *OrderService) {
		svc.idempotency = s
	}
}

// WithEventPublisher publishes OrderCreated and OrderStatusChanged after commit
func WithEventPublisher(p shared.EventPublisher) OrderServiceOption {
	return func(svc *OrderService) {
		svc.events = p
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) OrderServiceOption {
	return func(svc *OrderService) {
		svc.logger = l
	}
}

// WithInvoiceRenderer enables invoice PDFs
func WithInvoiceRenderer(r InvoiceRenderer) OrderServiceOption {
	return func(svc *OrderService) {
		svc.invoices = r
	}
}

// NewOrderService creates a new OrderService
func NewOrderService(
	stores store.Repository,
	products catalog.ProductRepository,
	orders order.Repository,
	customers order.CustomerRepository,
	txScope TransactionScope,
	opts ...OrderServiceOption,
) *OrderService {
	s := &OrderService{
		stores:    stores,
		products:  products,
		orders:    orders,
		customers: customers,
		txScope:   txScope,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrder places a storefront order. It writes the order, upserts the customer
// by phone and leaves a notification for the merchant in one transaction, then
// publishes OrderCreated. A non-empty idempotencyKey replays the first response
// for 24 hours.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (resp *CreateOrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "create",
		telemetry.SpanAttrStoreID, req.StoreID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer func() {
		if resp != nil {
			telemetry.SetAttributes(span,
				telemetry.SpanAttrOrderID, resp.OrderID.String(),
				telemetry.SpanAttrOrderNumber, resp.OrderNumber,
				telemetry.SpanAttrAmount, resp.Total.String(),
			)
		}
		telemetry.EndSpan(span, err)
	}()

	if err := validateCreateOrder(req); err != nil {
		return nil, err
	}

	if idempotencyKey == "" || s.idempotency == nil {
		return s.placeOrder(ctx, req)
	}

	key := fmt.Sprintf("order:%s:%s", req.StoreID, idempotencyKey)
	if cached, ok := s.cachedResponse(ctx, key); ok {
		return cached, nil
	}

	claimed, err := s.idempotency.Claim(ctx, key, shared.DefaultIdempotencyTTL)
	if err != nil {
		// without the store we can still take the order; only dedup is lost
		s.logger.Warn("idempotency claim failed", zap.Error(err))
		return s.placeOrder(ctx, req)
	}
	if !claimed {
		if cached, ok := s.cachedResponse(ctx, key); ok {
			return cached, nil
		}
		return nil, ErrRequestInProgress
	}

	resp, err = s.placeOrder(ctx, req)
	if err != nil {
		if relErr := s.idempotency.Release(ctx, key); relErr != nil {
			s.logger.Warn("failed to release idempotency key", zap.Error(relErr))
		}
		return nil, err
	}

	if err := s.completeIdempotent(ctx, key, resp); err != nil {
		// a key left claimed would turn every retry into REQUEST_IN_PROGRESS
		s.logger.Warn("failed to store idempotent response, releasing key",
			zap.String("order_number", resp.OrderNumber),
			zap.Error(err))
		if relErr := s.idempotency.Release(ctx, key); relErr != nil {
			s.logger.Warn("failed to release idempotency key", zap.Error(relErr))
		}
	}
	return resp, nil
}

func (s *OrderService) completeIdempotent(ctx context.Context, key string, resp *CreateOrderResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.idempotency.Complete(ctx, key, string(data), shared.DefaultIdempotencyTTL)
}

func (s *OrderService) cachedResponse(ctx context.Context, key string) (*CreateOrderResponse, bool) {
	value, ok, err := s.idempotency.Result(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var resp CreateOrderResponse
	if err := json.Unmarshal([]byte(value), &resp); err != nil {
		return nil, false
	}
	s.logger.Info("replaying idempotent order response", zap.String("order_number", resp.OrderNumber))
	return &resp, true
}

func (s *OrderService) placeOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	st, err := s.stores.FindByID(ctx, req.StoreID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrStoreUnavailable
		}
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrStoreUnavailable
	}

	items, err := s.buildItems(ctx, st.ID, req.Items)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal)
	}

	o, err := order.NewOrder(st.ID, order.CustomerInfo{
		Name:    req.CustomerName,
		Phone:   req.CustomerPhone,
		Email:   req.CustomerEmail,
		Address: req.CustomerAddress,
	}, items, order.DeliveryMode(req.DeliveryMode), st.DeliveryFeeFor(subtotal))
	if err != nil {
		return nil, err
	}
	o.Notes = strings.TrimSpace(req.Notes)
	o.MarkPlaced()

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		customer, err := repos.Customers().UpsertForOrder(ctx, o)
		if err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}

		o.AttachCustomer(customer.ID)
		if err := repos.Orders().Save(ctx, o); err != nil {
			return fmt.Errorf("save order: %w", err)
		}

		n, err := notification.New(st.ID, notification.TypeNewOrder,
			"New order "+o.OrderNumber, newOrderMessage(o))
		if err != nil {
			return err
		}
		if err := repos.Notifications().Save(ctx, n.ForOrder(o.ID)); err != nil {
			return fmt.Errorf("save notification: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("failed to place order",
			zap.String("store_id", st.ID.String()),
			zap.String("order_number", o.OrderNumber),
			zap.Error(err))
		return nil, shared.WrapDomainError(shared.ErrPersistenceWrite.Code, "Failed to save order", err)
	}

	s.logger.Info("order placed",
		zap.String("store_id", st.ID.String()),
		zap.String("order_id", o.ID.String()),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.Total.StringFixed(2)))

	s.publishEvents(ctx, o)

	return &CreateOrderResponse{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Subtotal:    o.Subtotal,
		DeliveryFee: o.DeliveryFee,
		Total:       o.Total,
	}, nil
}

// buildItems turns request lines into order items. Lines that reference a catalog
// product use the product's current name and price; the product must be active.
func (s *OrderService) buildItems(ctx context.Context, storeID uuid.UUID, lines []OrderItemRequest) ([]order.Item, error) {
	var ids []uuid.UUID
	for _, line := range lines {
		if line.ProductID != nil {
			ids = append(ids, *line.ProductID)
		}
	}

	catalogByID := make(map[uuid.UUID]catalog.Product, len(ids))
	if len(ids) > 0 && s.products != nil {
		products, err := s.products.FindByIDs(ctx, storeID, ids)
		if err != nil {
			return nil, err
		}
		for _, p := range products {
			catalogByID[p.ID] = p
		}
	}

	items := make([]order.Item, 0, len(lines))
	for _, line := range lines {
		name, price := line.Name, line.Price
		if line.ProductID != nil && s.products != nil {
			p, ok := catalogByID[*line.ProductID]
			if !ok || !p.IsActive {
				return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
					fmt.Sprintf("%q is no longer available", line.Name))
			}
			name, price = p.Name, p.Price
		}
		item, err := order.NewItem(line.ProductID, name, price, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	events := o.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", o.ID.String()),
			zap.Error(err))
	}
}

// List returns a page of the store's orders
func (s *OrderService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[OrderResponse], error) {
	filter = filter.Normalize()
	orders, err := s.orders.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, filter.Page, filter.PageSize)
	return &page, nil
}

// GetByID returns one of the store's orders
func (s *OrderService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*OrderResponse, error) {
	o, err := s.orders.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus moves an order to a new status and publishes OrderStatusChanged
func (s *OrderService) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	o, err := s.orders.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := o.TransitionTo(order.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, shared.WrapDomainError(shared.ErrPersistenceWrite.Code, "Failed to save order", err)
	}

	s.logger.Info("order status updated",
		zap.String("order_id", o.ID.String()),
		zap.String("status", string(o.Status)))

	s.publishEvents(ctx, o)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// ListCustomers returns a page of the store's customers
func (s *OrderService) ListCustomers(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	filter = filter.Normalize()
	customers, err := s.customers.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.customers.CountForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToCustomerResponses(customers), total, filter.Page, filter.PageSize)
	return &page, nil
}

func validateCreateOrder(req CreateOrderRequest) error {
	var missing []string
	if req.StoreID == uuid.Nil {
		missing = append(missing, "store_id")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(req.CustomerPhone) == "" {
		missing = append(missing, "customer_phone")
	}
	if len(req.Items) == 0 {
		missing = append(missing, "items")
	}
	if req.DeliveryMode == "" {
		missing = append(missing, "delivery_mode")
	}
	if len(missing) > 0 {
		return shared.NewDomainError(shared.ErrInvalidInput.Code,
			"Missing required fields: "+strings.Join(missing, ", "))
	}
	return nil
}

func newOrderMessage(o *order.Order) string {
	total := valueobject.NewMoneyINR(o.Total).Format()
	units := "items"
	if o.ItemCount() == 1 {
		units = "item"
	}
	return fmt.Sprintf("%s placed a %s order of %d %s worth %s",
		o.Customer.Name, o.DeliveryMode, o.ItemCount(), units, total)
}
