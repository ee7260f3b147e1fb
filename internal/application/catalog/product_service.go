// Package catalog holds the product use cases of a store: CRUD, listings,
// image uploads and CSV import/export.
package catalog

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultUploadExpiry = 15 * time.Minute
	maxLowStockItems    = 50
)

// ErrStorageDisabled is returned when no object storage is configured
var ErrStorageDisabled = shared.NewDomainError("FEATURE_DISABLED", "Image uploads are not configured")

// ProductService handles product business operations
type ProductService struct {
	products catalog.ProductRepository
	storage  ObjectStorage
	events   shared.EventPublisher
	logger   *zap.Logger
}

// ProductServiceOption configures a ProductService
type ProductServiceOption func(*ProductService)

// WithObjectStorage enables presigned image uploads
func WithObjectStorage(storage ObjectStorage) ProductServiceOption {
	return func(s *ProductService) {
		s.storage = storage
	}
}

// WithEventPublisher publishes product events after they are saved
func WithEventPublisher(events shared.EventPublisher) ProductServiceOption {
	return func(s *ProductService) {
		s.events = events
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) ProductServiceOption {
	return func(s *ProductService) {
		s.logger = logger
	}
}

// NewProductService creates a new ProductService
func NewProductService(products catalog.ProductRepository, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		products: products,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a product to the store. Names are unique per store, ignoring case.
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if err := s.ensureNameFree(ctx, storeID, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	p, err := catalog.NewProduct(storeID, req.Name, req.Price)
	if err != nil {
		return nil, err
	}
	if err := p.Update(req.Name, req.Description, req.Category, req.Brand, req.ImageURL); err != nil {
		return nil, err
	}
	if req.MRP != nil {
		if err := p.SetPricing(req.Price, *req.MRP); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := p.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil && !*req.IsActive {
		p.Deactivate()
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, p)

	resp := ToProductResponse(p)
	return &resp, nil
}

// Update applies the non-nil fields of req
func (s *ProductService) Update(ctx context.Context, storeID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	p, err := s.products.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	name, description, category, brand, imageURL := p.Name, p.Description, p.Category, p.Brand, p.ImageURL
	if req.Name != nil {
		if !strings.EqualFold(strings.TrimSpace(*req.Name), p.Name) {
			if err := s.ensureNameFree(ctx, storeID, *req.Name, p.ID); err != nil {
				return nil, err
			}
		}
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Category != nil {
		category = *req.Category
	}
	if req.Brand != nil {
		brand = *req.Brand
	}
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}
	if err := p.Update(name, description, category, brand, imageURL); err != nil {
		return nil, err
	}

	if req.Price != nil || req.MRP != nil {
		price, mrp := p.Price, p.MRP
		if req.Price != nil {
			price = *req.Price
		}
		if req.MRP != nil {
			mrp = *req.MRP
		}
		if err := p.SetPricing(price, mrp); err != nil {
			return nil, err
		}
	}
	if req.Stock != nil {
		if err := p.SetStock(*req.Stock); err != nil {
			return nil, err
		}
	}
	if req.IsActive != nil {
		if *req.IsActive {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}

	if err := s.products.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// Delete removes a product. Past orders keep their name and price snapshot.
func (s *ProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.products.FindByIDForStore(ctx, storeID, id); err != nil {
		return err
	}
	return s.products.DeleteForStore(ctx, storeID, id)
}

// GetByID returns one of the store's products
func (s *ProductService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.products.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// GetPublic returns an active product for the storefront
func (s *ProductService) GetPublic(ctx context.Context, storeID, id uuid.UUID) (*ProductResponse, error) {
	p, err := s.products.FindByIDForStore(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, shared.ErrNotFound
	}
	resp := ToProductResponse(p)
	return &resp, nil
}

// List returns a page of the store's products
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	filter = filter.Normalize()
	products, err := s.products.FindAllForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.CountForStore(ctx, storeID, filter)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToProductResponses(products), total, filter.Page, filter.PageSize)
	return &page, nil
}

// ListPublic lists only active products, whatever the filter says
func (s *ProductService) ListPublic(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	return s.List(ctx, storeID, filter.With("is_active", true))
}

// LowStock returns active products at or below the low stock threshold
func (s *ProductService) LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]ProductResponse, error) {
	if limit <= 0 || limit > maxLowStockItems {
		limit = maxLowStockItems
	}
	products, err := s.products.FindLowStock(ctx, storeID, catalog.LowStockThreshold, limit)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Categories returns the distinct categories in use
func (s *ProductService) Categories(ctx context.Context, storeID uuid.UUID) ([]string, error) {
	return s.products.Categories(ctx, storeID)
}

// CreateUploadURL returns a presigned URL the dashboard PUTs a product photo to
func (s *ProductService) CreateUploadURL(ctx context.Context, storeID uuid.UUID, req UploadURLRequest) (*UploadURLResponse, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	key := fmt.Sprintf("stores/%s/products/%s%s", storeID, uuid.NewString(), imageExtension(req.FileName, req.ContentType))
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, req.ContentType, defaultUploadExpiry)
	if err != nil {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "Failed to create upload URL", err)
	}
	return &UploadURLResponse{
		UploadURL: url,
		ImageURL:  s.storage.PublicURL(key),
		ObjectKey: key,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *ProductService) ensureNameFree(ctx context.Context, storeID uuid.UUID, name string, self uuid.UUID) error {
	existing, err := s.products.FindByNames(ctx, storeID, []string{name})
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.ID != self {
			return shared.NewDomainError(shared.ErrAlreadyExists.Code,
				fmt.Sprintf("A product named %q already exists", p.Name))
		}
	}
	return nil
}

func (s *ProductService) publishEvents(ctx context.Context, p *catalog.Product) {
	events := p.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish product events",
			zap.String("product_id", p.ID.String()),
			zap.Error(err))
	}
}

func imageExtension(fileName, contentType string) string {
	ext := strings.ToLower(path.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ".png"
}
