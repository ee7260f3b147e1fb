package models

import (
	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	StoreAggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Category    string          `gorm:"type:varchar(100);index"`
	Brand       string          `gorm:"type:varchar(100)"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MRP         decimal.Decimal `gorm:"column:mrp;type:decimal(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(500)"`
	IsActive    bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		StoreAggregateRoot: m.StoreAggregate(),
		Name:               m.Name,
		Description:        m.Description,
		Category:           m.Category,
		Brand:              m.Brand,
		Price:              m.Price,
		MRP:                m.MRP,
		Stock:              m.Stock,
		ImageURL:           m.ImageURL,
		IsActive:           m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.SetStoreAggregate(p.StoreAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Category = p.Category
	m.Brand = p.Brand
	m.Price = p.Price
	m.MRP = p.MRP
	m.Stock = p.Stock
	m.ImageURL = p.ImageURL
	m.IsActive = p.IsActive
}

// ProductModelFromDomain creates a new ProductModel from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// CategoryImageModel maps a category key to its generated artwork
type CategoryImageModel struct {
	BaseModel
	CategoryKey  string `gorm:"type:varchar(120);not null;uniqueIndex"`
	CategoryName string `gorm:"type:varchar(120);not null"`
	ImageURL     string `gorm:"type:varchar(500);not null"`
	ObjectKey    string `gorm:"type:varchar(300)"`
}

// TableName returns the table name for GORM
func (CategoryImageModel) TableName() string {
	return "category_images"
}

// ToDomain converts the persistence model to a domain CategoryImage
func (m *CategoryImageModel) ToDomain() *catalog.CategoryImage {
	return &catalog.CategoryImage{
		BaseEntity:   m.Entity(),
		CategoryKey:  m.CategoryKey,
		CategoryName: m.CategoryName,
		ImageURL:     m.ImageURL,
		ObjectKey:    m.ObjectKey,
	}
}

// FromDomain populates the persistence model from a domain CategoryImage
func (m *CategoryImageModel) FromDomain(img *catalog.CategoryImage) {
	m.SetEntity(img.BaseEntity)
	m.CategoryKey = img.CategoryKey
	m.CategoryName = img.CategoryName
	m.ImageURL = img.ImageURL
	m.ObjectKey = img.ObjectKey
}
