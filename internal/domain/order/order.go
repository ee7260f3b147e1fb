package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

// DeliveryMode is how the customer receives the order
type DeliveryMode string

const (
	DeliveryModeDelivery DeliveryMode = "delivery"
	DeliveryModePickup   DeliveryMode = "pickup"
)

// IsValid reports whether m is a known delivery mode
func (m DeliveryMode) IsValid() bool {
	return m == DeliveryModeDelivery || m == DeliveryModePickup
}

// MaxItemQuantity caps a single line quantity
const MaxItemQuantity = 999

// Item is one line of an order. Name and price are snapshots taken at order time.
type Item struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID *uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// NewItem creates an order line and computes its total
func NewItem(productID *uuid.UUID, name string, price decimal.Decimal, quantity int) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, shared.NewDomainError("INVALID_ITEM", "Item name is required")
	}
	if price.IsNegative() {
		return Item{}, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Item %q has a negative price", name))
	}
	if quantity < 1 || quantity > MaxItemQuantity {
		return Item{}, shared.NewDomainError("INVALID_ITEM", fmt.Sprintf("Item %q quantity must be between 1 and %d", name, MaxItemQuantity))
	}
	return Item{
		ID:        uuid.New(),
		ProductID: productID,
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		LineTotal: price.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// CustomerInfo is the contact snapshot stored on the order
type CustomerInfo struct {
	Name    string
	Phone   string
	Email   string
	Address string
}

// Order is a storefront purchase
type Order struct {
	shared.StoreAggregateRoot
	OrderNumber  string
	CustomerID   *uuid.UUID
	Customer     CustomerInfo
	Items        []Item
	DeliveryMode DeliveryMode
	Subtotal     decimal.Decimal
	DeliveryFee  decimal.Decimal
	Total        decimal.Decimal
	Status       Status
	Notes        string
}

// NewOrder creates a pending order and computes its totals.
// deliveryFee is only charged for delivery orders.
func NewOrder(storeID uuid.UUID, customer CustomerInfo, items []Item, mode DeliveryMode, deliveryFee decimal.Decimal) (*Order, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store is required")
	}
	if strings.TrimSpace(customer.Name) == "" || strings.TrimSpace(customer.Phone) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer name and phone are required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_MODE", fmt.Sprintf("Unknown delivery mode %q", mode))
	}
	if deliveryFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DELIVERY_FEE", "Delivery fee cannot be negative")
	}
	if mode == DeliveryModeDelivery && strings.TrimSpace(customer.Address) == "" {
		return nil, shared.NewDomainError("ADDRESS_REQUIRED", "Delivery address is required for delivery orders")
	}

	o := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Customer: CustomerInfo{
			Name:    strings.TrimSpace(customer.Name),
			Phone:   NormalizePhone(customer.Phone),
			Email:   strings.ToLower(strings.TrimSpace(customer.Email)),
			Address: strings.TrimSpace(customer.Address),
		},
		Items:        items,
		DeliveryMode: mode,
		Status:       StatusPending,
	}
	o.OrderNumber = GenerateOrderNumber(o.CreatedAt, o.ID)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	o.calculateTotals(deliveryFee)

	return o, nil
}

func (o *Order) calculateTotals(deliveryFee decimal.Decimal) {
	subtotal := decimal.Zero
	for _, it := range o.Items {
		subtotal = subtotal.Add(it.LineTotal)
	}
	o.Subtotal = subtotal.Round(2)
	if o.DeliveryMode == DeliveryModeDelivery {
		o.DeliveryFee = deliveryFee.Round(2)
	} else {
		o.DeliveryFee = decimal.Zero
	}
	o.Total = o.Subtotal.Add(o.DeliveryFee)
}

// ItemCount returns the total number of units ordered
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// AttachCustomer links the order to the upserted customer record
func (o *Order) AttachCustomer(customerID uuid.UUID) {
	o.CustomerID = &customerID
}

// MarkPlaced records the OrderCreated event once the order is ready to persist
func (o *Order) MarkPlaced() {
	o.AddDomainEvent(NewOrderCreatedEvent(o))
}

// TransitionTo moves the order to a new status if the lifecycle allows it
func (o *Order) TransitionTo(next Status) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", next))
	}
	if o.Status == next {
		return nil
	}
	allowed := false
	for _, s := range allowedTransitions[o.Status] {
		if s == next {
			allowed = true
			break
		}
	}
	if !allowed {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, next))
	}
	prev := o.Status
	o.Status = next
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, prev))
	return nil
}

// GenerateOrderNumber builds a human-friendly number like ORD-20260115-3F9A2C
func GenerateOrderNumber(at time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", at.Format("20060102"), suffix)
}

// NormalizePhone strips formatting and a leading +91 country code so that
// "+91 98765-43210" and "9876543210" resolve to the same customer.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 12 && strings.HasPrefix(digits, "91") {
		digits = digits[2:]
	}
	if len(digits) == 11 && strings.HasPrefix(digits, "0") {
		digits = digits[1:]
	}
	return digits
}
