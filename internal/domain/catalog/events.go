package catalog

import (
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated   = "ProductCreated"
	EventTypeProductsImported = "ProductsImported"
)

// ProductCreatedEvent is published when a product is added to a store
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.StoreID),
		ProductID:       p.ID,
		Name:            p.Name,
		Price:           p.Price,
	}
}

// ProductsImportedEvent is published once per completed CSV import
type ProductsImportedEvent struct {
	shared.BaseDomainEvent
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
}

// NewProductsImportedEvent creates a new ProductsImportedEvent
func NewProductsImportedEvent(storeID uuid.UUID, imported, updated int) *ProductsImportedEvent {
	return &ProductsImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductsImported, AggregateTypeProduct, storeID, storeID),
		Imported:        imported,
		Updated:         updated,
	}
}
