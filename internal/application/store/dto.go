package store

import (
	"time"

	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateStoreRequest is the body for creating a store
type CreateStoreRequest struct {
	Name                  string           `json:"name" binding:"required,min=1,max=120"`
	Slug                  string           `json:"slug" binding:"omitempty,slug"`
	Description           string           `json:"description" binding:"max=2000"`
	Phone                 string           `json:"phone" binding:"omitempty,phone"`
	Email                 string           `json:"email" binding:"omitempty,email"`
	Address               string           `json:"address" binding:"max=500"`
	LogoURL               string           `json:"logo_url" binding:"omitempty,url"`
	DeliveryFee           *decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold"`
}

// UpdateStoreRequest is the body for updating a store. Nil fields are left unchanged.
type UpdateStoreRequest struct {
	Name                  *string          `json:"name" binding:"omitempty,min=1,max=120"`
	Description           *string          `json:"description" binding:"omitempty,max=2000"`
	Phone                 *string          `json:"phone" binding:"omitempty,phone"`
	Email                 *string          `json:"email" binding:"omitempty,email"`
	Address               *string          `json:"address" binding:"omitempty,max=500"`
	LogoURL               *string          `json:"logo_url" binding:"omitempty,url"`
	DeliveryFee           *decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold *decimal.Decimal `json:"free_delivery_threshold"`
}

// StoreResponse is a store as returned to its owner
type StoreResponse struct {
	ID                    uuid.UUID       `json:"id"`
	OwnerID               uuid.UUID       `json:"owner_id"`
	Name                  string          `json:"name"`
	Slug                  string          `json:"slug"`
	Description           string          `json:"description"`
	Phone                 string          `json:"phone"`
	Email                 string          `json:"email"`
	Address               string          `json:"address"`
	LogoURL               string          `json:"logo_url"`
	Currency              string          `json:"currency"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
	IsActive              bool            `json:"is_active"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PublicStoreResponse is what the storefront shows shoppers
type PublicStoreResponse struct {
	ID                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Slug                  string          `json:"slug"`
	Description           string          `json:"description"`
	Phone                 string          `json:"phone"`
	Address               string          `json:"address"`
	LogoURL               string          `json:"logo_url"`
	Currency              string          `json:"currency"`
	DeliveryFee           decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryThreshold decimal.Decimal `json:"free_delivery_threshold"`
}

// ToStoreResponse converts a domain store
func ToStoreResponse(s *store.Store) StoreResponse {
	return StoreResponse{
		ID:                    s.ID,
		OwnerID:               s.OwnerID,
		Name:                  s.Name,
		Slug:                  s.Slug,
		Description:           s.Description,
		Phone:                 s.Phone,
		Email:                 s.Email,
		Address:               s.Address,
		LogoURL:               s.LogoURL,
		Currency:              s.Currency,
		DeliveryFee:           s.DeliveryFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
		IsActive:              s.IsActive,
		CreatedAt:             s.CreatedAt,
		UpdatedAt:             s.UpdatedAt,
	}
}

// ToPublicStoreResponse converts a domain store for the storefront
func ToPublicStoreResponse(s *store.Store) PublicStoreResponse {
	return PublicStoreResponse{
		ID:                    s.ID,
		Name:                  s.Name,
		Slug:                  s.Slug,
		Description:           s.Description,
		Phone:                 s.Phone,
		Address:               s.Address,
		LogoURL:               s.LogoURL,
		Currency:              s.Currency,
		DeliveryFee:           s.DeliveryFee,
		FreeDeliveryThreshold: s.FreeDeliveryThreshold,
	}
}
