package models

import (
	"time"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	StoreAggregateModel
	OrderNumber     string             `gorm:"type:varchar(40);not null;uniqueIndex"`
	CustomerID      *uuid.UUID         `gorm:"type:uuid;index"`
	CustomerName    string             `gorm:"type:varchar(200);not null"`
	CustomerPhone   string             `gorm:"type:varchar(20);not null;index"`
	CustomerEmail   string             `gorm:"type:varchar(200)"`
	CustomerAddress string             `gorm:"type:text"`
	DeliveryMode    order.DeliveryMode `gorm:"type:varchar(20);not null"`
	Subtotal        decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	DeliveryFee     decimal.Decimal    `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal    `gorm:"type:decimal(12,2);not null"`
	Status          order.Status       `gorm:"type:varchar(20);not null;index"`
	Notes           string             `gorm:"type:text"`
	Items           []OrderItemModel   `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		StoreAggregateRoot: m.StoreAggregate(),
		OrderNumber:        m.OrderNumber,
		CustomerID:         m.CustomerID,
		Customer: order.CustomerInfo{
			Name:    m.CustomerName,
			Phone:   m.CustomerPhone,
			Email:   m.CustomerEmail,
			Address: m.CustomerAddress,
		},
		DeliveryMode: m.DeliveryMode,
		Subtotal:     m.Subtotal,
		DeliveryFee:  m.DeliveryFee,
		Total:        m.Total,
		Status:       m.Status,
		Notes:        m.Notes,
		Items:        make([]order.Item, 0, len(m.Items)),
	}
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.SetStoreAggregate(o.StoreAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.CustomerID = o.CustomerID
	m.CustomerName = o.Customer.Name
	m.CustomerPhone = o.Customer.Phone
	m.CustomerEmail = o.Customer.Email
	m.CustomerAddress = o.Customer.Address
	m.DeliveryMode = o.DeliveryMode
	m.Subtotal = o.Subtotal
	m.DeliveryFee = o.DeliveryFee
	m.Total = o.Total
	m.Status = o.Status
	m.Notes = o.Notes
	m.Items = make([]OrderItemModel, 0, len(o.Items))
	for _, it := range o.Items {
		im := OrderItemModel{}
		im.FromDomain(it, o.CreatedAt)
		m.Items = append(m.Items, im)
	}
}

// OrderModelFromDomain creates a new OrderModel from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one line of an order
type OrderItemModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID *uuid.UUID      `gorm:"type:uuid;index"`
	Name      string          `gorm:"type:varchar(200);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain order Item
func (m *OrderItemModel) ToDomain() order.Item {
	return order.Item{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Name:      m.Name,
		Price:     m.Price,
		Quantity:  m.Quantity,
		LineTotal: m.LineTotal,
	}
}

// FromDomain populates the persistence model from a domain order Item
func (m *OrderItemModel) FromDomain(it order.Item, createdAt time.Time) {
	m.ID = it.ID
	m.OrderID = it.OrderID
	m.ProductID = it.ProductID
	m.Name = it.Name
	m.Price = it.Price
	m.Quantity = it.Quantity
	m.LineTotal = it.LineTotal
	m.CreatedAt = createdAt
}

// CustomerModel is the persistence model for storefront customers
type CustomerModel struct {
	StoreAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Phone       string          `gorm:"type:varchar(20);not null;index"`
	Email       string          `gorm:"type:varchar(200)"`
	Address     string          `gorm:"type:text"`
	TotalOrders int             `gorm:"not null;default:0"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	LastOrderAt *time.Time
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *order.Customer {
	return &order.Customer{
		StoreAggregateRoot: m.StoreAggregate(),
		Name:               m.Name,
		Phone:              m.Phone,
		Email:              m.Email,
		Address:            m.Address,
		TotalOrders:        m.TotalOrders,
		TotalSpent:         m.TotalSpent,
		LastOrderAt:        m.LastOrderAt,
	}
}

// FromDomain populates the persistence model from a domain Customer
func (m *CustomerModel) FromDomain(c *order.Customer) {
	m.SetStoreAggregate(c.StoreAggregateRoot)
	m.Name = c.Name
	m.Phone = c.Phone
	m.Email = c.Email
	m.Address = c.Address
	m.TotalOrders = c.TotalOrders
	m.TotalSpent = c.TotalSpent
	m.LastOrderAt = c.LastOrderAt
}
