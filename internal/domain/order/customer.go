package order

import (
	"strings"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer is a storefront buyer, unique per store by phone number
type Customer struct {
	shared.StoreAggregateRoot
	Name        string
	Phone       string
	Email       string
	Address     string
	TotalOrders int
	TotalSpent  decimal.Decimal
	LastOrderAt *time.Time
}

// NewCustomer creates a customer with no order history
func NewCustomer(storeID uuid.UUID, info CustomerInfo) *Customer {
	return &Customer{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               strings.TrimSpace(info.Name),
		Phone:              NormalizePhone(info.Phone),
		Email:              strings.ToLower(strings.TrimSpace(info.Email)),
		Address:            strings.TrimSpace(info.Address),
		TotalSpent:         decimal.Zero,
	}
}

// CustomerForOrder is the customer row a first order from this phone would create
func CustomerForOrder(o *Order) *Customer {
	c := NewCustomer(o.StoreID, o.Customer)
	c.RecordOrder(o)
	return c
}

// RecordOrder refreshes contact details from the order and accumulates totals.
// Blank fields on the order never erase what is already known.
func (c *Customer) RecordOrder(o *Order) {
	if o.Customer.Name != "" {
		c.Name = o.Customer.Name
	}
	if o.Customer.Email != "" {
		c.Email = o.Customer.Email
	}
	if o.Customer.Address != "" {
		c.Address = o.Customer.Address
	}
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(o.Total)
	at := o.CreatedAt
	c.LastOrderAt = &at
	c.Touch()
	c.IncrementVersion()
}
