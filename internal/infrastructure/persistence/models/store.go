package models

import (
	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreModel is the persistence model for the Store aggregate
type StoreModel struct {
	AggregateModel
	OwnerID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name                  string          `gorm:"type:varchar(120);not null"`
	Slug                  string          `gorm:"type:varchar(60);not null;uniqueIndex"`
	Description           string          `gorm:"type:text"`
	Phone                 string          `gorm:"type:varchar(20)"`
	Email                 string          `gorm:"type:varchar(200)"`
	Address               string          `gorm:"type:text"`
	LogoURL               string          `gorm:"type:varchar(500)"`
	Currency              string          `gorm:"type:varchar(3);not null;default:'INR'"`
	DeliveryFee           decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FreeDeliveryThreshold decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsActive              bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StoreModel) TableName() string {
	return "stores"
}

// ToDomain converts the persistence model to a domain Store
func (m *StoreModel) ToDomain() *store.Store {
	return &store.Store{
		BaseAggregateRoot:     m.Aggregate(),
		OwnerID:               m.OwnerID,
		Name:                  m.Name,
		Slug:                  m.Slug,
		Description:           m.Description,
		Phone:                 m.Phone,
		Email:                 m.Email,
		Address:               m.Address,
		LogoURL:               m.LogoURL,
		Currency:              m.Currency,
		DeliveryFee:           m.DeliveryFee,
		FreeDeliveryThreshold: m.FreeDeliveryThreshold,
		IsActive:              m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain Store
func (m *StoreModel) FromDomain(s *store.Store) {
	m.SetAggregate(s.BaseAggregateRoot)
	m.OwnerID = s.OwnerID
	m.Name = s.Name
	m.Slug = s.Slug
	m.Description = s.Description
	m.Phone = s.Phone
	m.Email = s.Email
	m.Address = s.Address
	m.LogoURL = s.LogoURL
	m.Currency = s.Currency
	m.DeliveryFee = s.DeliveryFee
	m.FreeDeliveryThreshold = s.FreeDeliveryThreshold
	m.IsActive = s.IsActive
}

// StoreModelFromDomain creates a new StoreModel from a domain Store
func StoreModelFromDomain(s *store.Store) *StoreModel {
	m := &StoreModel{}
	m.FromDomain(s)
	return m
}
