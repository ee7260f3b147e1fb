package catalog

import (
	"strings"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level at or below which a product is flagged on the dashboard
const LowStockThreshold = 5

// Product is an item a store sells
type Product struct {
	shared.StoreAggregateRoot
	Name        string
	Description string
	Category    string
	Brand       string
	Price       decimal.Decimal
	MRP         decimal.Decimal
	Stock       int
	ImageURL    string
	IsActive    bool
}

// NewProduct creates an active product with a price
func NewProduct(storeID uuid.UUID, name string, price decimal.Decimal) (*Product, error) {
	if storeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STORE", "Store is required")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}

	p := &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               strings.TrimSpace(name),
		Price:              price,
		MRP:                decimal.Zero,
		IsActive:           true,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the descriptive fields
func (p *Product) Update(name, description, category, brand, imageURL string) error {
	if err := validateName(name); err != nil {
		return err
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Category = NormalizeCategory(category)
	p.Brand = strings.TrimSpace(brand)
	p.ImageURL = imageURL
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetPricing sets the selling price and optional MRP. MRP must not be below the price.
func (p *Product) SetPricing(price, mrp decimal.Decimal) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if mrp.IsNegative() {
		return shared.NewDomainError("INVALID_MRP", "MRP cannot be negative")
	}
	if !mrp.IsZero() && mrp.LessThan(price) {
		return shared.NewDomainError("INVALID_MRP", "MRP cannot be lower than the selling price")
	}
	p.Price = price
	p.MRP = mrp
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetStock sets the available quantity
func (p *Product) SetStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	p.Stock = stock
	p.Touch()
	return nil
}

// Activate makes the product visible on the storefront
func (p *Product) Activate() {
	p.IsActive = true
	p.Touch()
	p.IncrementVersion()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.Touch()
	p.IncrementVersion()
}

// IsLowStock reports whether stock is at or below LowStockThreshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= LowStockThreshold
}

// Discount returns MRP minus price, or zero when no MRP is set
func (p *Product) Discount() decimal.Decimal {
	if p.MRP.IsZero() {
		return decimal.Zero
	}
	return p.MRP.Sub(p.Price)
}

// NormalizeCategory trims and collapses whitespace in a category label
func NormalizeCategory(category string) string {
	return strings.Join(strings.Fields(category), " ")
}

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than zero")
	}
	return nil
}
