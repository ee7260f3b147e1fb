package order

import (
	"time"

	"github.com/bizgrow/backend/internal/domain/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the storefront checkout payload
type CreateOrderRequest struct {
	StoreID         uuid.UUID          `json:"store_id" binding:"required"`
	CustomerName    string             `json:"customer_name" binding:"required,max=120"`
	CustomerPhone   string             `json:"customer_phone" binding:"required,max=20"`
	CustomerEmail   string             `json:"customer_email" binding:"omitempty,email,max=200"`
	CustomerAddress string             `json:"customer_address" binding:"max=500"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
	DeliveryMode    string             `json:"delivery_mode" binding:"required,oneof=delivery pickup"`
	Notes           string             `json:"notes" binding:"max=1000"`
}

// OrderItemRequest is one cart line at checkout
type OrderItemRequest struct {
	ProductID *uuid.UUID      `json:"product_id"`
	Name      string          `json:"name" binding:"required,max=200"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" binding:"required,min=1,max=999"`
}

// CreateOrderResponse is returned to the storefront after checkout
type CreateOrderResponse struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// UpdateStatusRequest moves an order along its lifecycle
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// OrderListQuery are the dashboard's order list filters
type OrderListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending confirmed shipped delivered cancelled"`
	From     string `form:"from"`
	To       string `form:"to"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToFilter converts the query into a repository filter.
// from and to are dates (2006-01-02); to is inclusive.
func (q OrderListQuery) ToFilter() (shared.Filter, error) {
	f := shared.DefaultFilter()
	if q.Page > 0 {
		f.Page = q.Page
	}
	if q.PageSize > 0 {
		f.PageSize = q.PageSize
	}
	if q.OrderBy != "" {
		f.OrderBy = q.OrderBy
	}
	if q.OrderDir != "" {
		f.OrderDir = q.OrderDir
	}
	f.Search = q.Search
	if q.Status != "" {
		f.Filters["status"] = q.Status
	}
	if q.From != "" {
		from, err := time.Parse(time.DateOnly, q.From)
		if err != nil {
			return f, shared.NewDomainError("INVALID_INPUT", "from must be a date like 2026-01-31")
		}
		f.Filters["from"] = from
	}
	if q.To != "" {
		to, err := time.Parse(time.DateOnly, q.To)
		if err != nil {
			return f, shared.NewDomainError("INVALID_INPUT", "to must be a date like 2026-01-31")
		}
		f.Filters["to"] = to.AddDate(0, 0, 1)
	}
	return f.Normalize(), nil
}

// OrderItemResponse is an order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID *uuid.UUID      `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse is an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	StoreID         uuid.UUID           `json:"store_id"`
	OrderNumber     string              `json:"order_number"`
	CustomerID      *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerEmail   string              `json:"customer_email,omitempty"`
	CustomerAddress string              `json:"customer_address,omitempty"`
	Items           []OrderItemResponse `json:"items"`
	DeliveryMode    string              `json:"delivery_mode"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain order
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		}
	}
	return OrderResponse{
		ID:              o.ID,
		StoreID:         o.StoreID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CustomerName:    o.Customer.Name,
		CustomerPhone:   o.Customer.Phone,
		CustomerEmail:   o.Customer.Email,
		CustomerAddress: o.Customer.Address,
		Items:           items,
		DeliveryMode:    string(o.DeliveryMode),
		Subtotal:        o.Subtotal,
		DeliveryFee:     o.DeliveryFee,
		Total:           o.Total,
		Status:          string(o.Status),
		Notes:           o.Notes,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

// ToOrderResponses converts a list of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// CustomerResponse is a storefront customer in API responses
type CustomerResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email,omitempty"`
	Address     string          `json:"address,omitempty"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	LastOrderAt *time.Time      `json:"last_order_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToCustomerResponses converts a list of customers
func ToCustomerResponses(customers []order.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i, c := range customers {
		out[i] = CustomerResponse{
			ID:          c.ID,
			Name:        c.Name,
			Phone:       c.Phone,
			Email:       c.Email,
			Address:     c.Address,
			TotalOrders: c.TotalOrders,
			TotalSpent:  c.TotalSpent,
			LastOrderAt: c.LastOrderAt,
			CreatedAt:   c.CreatedAt,
		}
	}
	return out
}
