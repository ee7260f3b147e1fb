// Package store manages merchant shops and guards access to them.
package store

import (
	"context"
	"errors"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/domain/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrSlugTaken is returned when another store already uses the slug
var ErrSlugTaken = shared.NewDomainError(shared.ErrAlreadyExists.Code, "Store slug is already taken")

// StoreService handles store business operations
type StoreService struct {
	repo   store.Repository
	logger *zap.Logger
}

// NewStoreService creates a new StoreService
func NewStoreService(repo store.Repository, logger *zap.Logger) *StoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreService{repo: repo, logger: logger}
}

// Create creates a store owned by ownerID. An empty slug is derived from the name.
func (s *StoreService) Create(ctx context.Context, ownerID uuid.UUID, req CreateStoreRequest) (*StoreResponse, error) {
	st, err := store.NewStore(ownerID, req.Name, req.Slug)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsBySlug(ctx, st.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugTaken
	}

	if err := st.UpdateProfile(req.Name, req.Description, req.Phone, req.Email, req.Address, req.LogoURL); err != nil {
		return nil, err
	}
	if err := applyDeliveryPricing(st, req.DeliveryFee, req.FreeDeliveryThreshold); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("store created",
		zap.String("store_id", st.ID.String()),
		zap.String("slug", st.Slug),
		zap.String("owner_id", ownerID.String()))

	resp := ToStoreResponse(st)
	return &resp, nil
}

// Get returns a store its owner can manage
func (s *StoreService) Get(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	st, err := s.owned(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// GetBySlug returns an active store for the public storefront
func (s *StoreService) GetBySlug(ctx context.Context, slug string) (*PublicStoreResponse, error) {
	st, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, shared.ErrNotFound
	}
	resp := ToPublicStoreResponse(st)
	return &resp, nil
}

// ListMine returns the stores owned by ownerID
func (s *StoreService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]StoreResponse, error) {
	stores, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resp := make([]StoreResponse, len(stores))
	for i := range stores {
		resp[i] = ToStoreResponse(&stores[i])
	}
	return resp, nil
}

// Update applies the non-nil fields of req
func (s *StoreService) Update(ctx context.Context, ownerID, storeID uuid.UUID, req UpdateStoreRequest) (*StoreResponse, error) {
	st, err := s.owned(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}

	name, description, phone, email, address, logo := st.Name, st.Description, st.Phone, st.Email, st.Address, st.LogoURL
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Email != nil {
		email = *req.Email
	}
	if req.Address != nil {
		address = *req.Address
	}
	if req.LogoURL != nil {
		logo = *req.LogoURL
	}
	if err := st.UpdateProfile(name, description, phone, email, address, logo); err != nil {
		return nil, err
	}

	if err := applyDeliveryPricing(st, req.DeliveryFee, req.FreeDeliveryThreshold); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// Activate opens the store for orders
func (s *StoreService) Activate(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	return s.setActive(ctx, ownerID, storeID, true)
}

// Deactivate closes the store
func (s *StoreService) Deactivate(ctx context.Context, ownerID, storeID uuid.UUID) (*StoreResponse, error) {
	return s.setActive(ctx, ownerID, storeID, false)
}

func (s *StoreService) setActive(ctx context.Context, ownerID, storeID uuid.UUID, active bool) (*StoreResponse, error) {
	st, err := s.owned(ctx, ownerID, storeID)
	if err != nil {
		return nil, err
	}
	if active {
		st.Activate()
	} else {
		st.Deactivate()
	}
	if err := s.repo.Save(ctx, st); err != nil {
		return nil, err
	}
	resp := ToStoreResponse(st)
	return &resp, nil
}

// VerifyOwner checks that userID owns storeID. A store owned by someone else is
// reported as forbidden, a missing one as not found.
func (s *StoreService) VerifyOwner(ctx context.Context, userID, storeID uuid.UUID) error {
	_, err := s.owned(ctx, userID, storeID)
	return err
}

func applyDeliveryPricing(st *store.Store, fee, threshold *decimal.Decimal) error {
	if fee == nil && threshold == nil {
		return nil
	}
	newFee, newThreshold := st.DeliveryFee, st.FreeDeliveryThreshold
	if fee != nil {
		newFee = *fee
	}
	if threshold != nil {
		newThreshold = *threshold
	}
	return st.SetDeliveryPricing(newFee, newThreshold)
}

func (s *StoreService) owned(ctx context.Context, ownerID, storeID uuid.UUID) (*store.Store, error) {
	st, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError(shared.ErrNotFound.Code, "Store not found")
		}
		return nil, err
	}
	if !st.IsOwnedBy(ownerID) {
		return nil, shared.NewDomainError(shared.ErrForbidden.Code, "You do not have access to this store")
	}
	return st, nil
}
