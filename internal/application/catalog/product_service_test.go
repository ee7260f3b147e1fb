package catalog

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProduct(t *testing.T, storeID uuid.UUID, name string, price int64) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, name, decimal.NewFromInt(price))
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("creates and publishes", func(t *testing.T) {
		repo := new(MockProductRepository)
		events := new(MockEventPublisher)
		svc := NewProductService(repo, WithEventPublisher(events))
		mrp := decimal.NewFromInt(150)
		stock := 3

		repo.On("FindByNames", ctx, storeID, []string{"Basmati Rice 1kg"}).Return([]catalog.Product{}, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)
		events.On("Publish", ctx, mock.MatchedBy(func(evts []shared.DomainEvent) bool {
			return len(evts) == 1 && evts[0].EventType() == catalog.EventTypeProductCreated
		})).Return(nil)

		resp, err := svc.Create(ctx, storeID, CreateProductRequest{
			Name:     "Basmati Rice 1kg",
			Category: "  Grocery  Staples ",
			Price:    decimal.NewFromInt(120),
			MRP:      &mrp,
			Stock:    &stock,
		})
		require.NoError(t, err)
		assert.Equal(t, "Grocery Staples", resp.Category)
		assert.True(t, resp.Discount.Equal(decimal.NewFromInt(30)))
		assert.True(t, resp.IsLowStock)
		assert.True(t, resp.IsActive)
		events.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		repo.On("FindByNames", ctx, storeID, []string{"tea"}).
			Return([]catalog.Product{*newProduct(t, storeID, "Tea", 100)}, nil)

		_, err := svc.Create(ctx, storeID, CreateProductRequest{Name: "tea", Price: decimal.NewFromInt(90)})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("mrp below price", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		mrp := decimal.NewFromInt(50)
		repo.On("FindByNames", ctx, storeID, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := svc.Create(ctx, storeID, CreateProductRequest{Name: "Ghee", Price: decimal.NewFromInt(60), MRP: &mrp})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("zero price", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		repo.On("FindByNames", ctx, storeID, mock.Anything).Return([]catalog.Product{}, nil)

		_, err := svc.Create(ctx, storeID, CreateProductRequest{Name: "Free", Price: decimal.Zero})
		assert.Error(t, err)
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		p := newProduct(t, storeID, "Tea", 100)
		p.Brand = "Tata"
		repo.On("FindByIDForStore", ctx, storeID, p.ID).Return(p, nil)
		repo.On("Save", ctx, p).Return(nil)

		price := decimal.NewFromInt(110)
		active := false
		resp, err := svc.Update(ctx, storeID, p.ID, UpdateProductRequest{Price: &price, IsActive: &active})
		require.NoError(t, err)
		assert.Equal(t, "Tata", resp.Brand)
		assert.True(t, resp.Price.Equal(price))
		assert.False(t, resp.IsActive)
	})

	t.Run("rename to taken name", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		p := newProduct(t, storeID, "Tea", 100)
		other := newProduct(t, storeID, "Coffee", 200)
		repo.On("FindByIDForStore", ctx, storeID, p.ID).Return(p, nil)
		repo.On("FindByNames", ctx, storeID, []string{"Coffee"}).Return([]catalog.Product{*other}, nil)

		name := "Coffee"
		_, err := svc.Update(ctx, storeID, p.ID, UpdateProductRequest{Name: &name})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)
		id := uuid.New()
		repo.On("FindByIDForStore", ctx, storeID, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Update(ctx, storeID, id, UpdateProductRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	p := newProduct(t, storeID, "Tea", 100)
	repo.On("FindByIDForStore", ctx, storeID, p.ID).Return(p, nil)
	repo.On("DeleteForStore", ctx, storeID, p.ID).Return(nil)

	require.NoError(t, svc.Delete(ctx, storeID, p.ID))
	repo.AssertExpectations(t)
}

func TestProductService_ListPublic(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	activeOnly := mock.MatchedBy(func(f shared.Filter) bool { return f.Filters["is_active"] == true })
	repo.On("FindAllForStore", ctx, storeID, activeOnly).Return([]catalog.Product{*newProduct(t, storeID, "Tea", 100)}, nil)
	repo.On("CountForStore", ctx, storeID, activeOnly).Return(int64(1), nil)

	inactive := false
	page, err := svc.ListPublic(ctx, storeID, ProductListQuery{IsActive: &inactive}.ToFilter())
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(1), page.Total)
}

func TestProductService_GetPublicHidesInactive(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	p := newProduct(t, storeID, "Tea", 100)
	p.Deactivate()
	repo.On("FindByIDForStore", ctx, storeID, p.ID).Return(p, nil)

	_, err := svc.GetPublic(ctx, storeID, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductService_LowStock(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)
	repo.On("FindLowStock", ctx, storeID, catalog.LowStockThreshold, 50).Return([]catalog.Product{}, nil)

	list, err := svc.LowStock(ctx, storeID, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	repo.AssertExpectations(t)
}

func TestProductService_CreateUploadURL(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	t.Run("presigns a store scoped key", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := NewProductService(new(MockProductRepository), WithObjectStorage(storage))
		expires := time.Now().Add(15 * time.Minute)
		storage.On("GenerateUploadURL", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "stores/"+storeID.String()+"/products/") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", defaultUploadExpiry).Return("https://s3.example.com/put", expires, nil)

		resp, err := svc.CreateUploadURL(ctx, storeID, UploadURLRequest{FileName: "Photo.JPG", ContentType: "image/jpeg"})
		require.NoError(t, err)
		assert.Equal(t, "https://s3.example.com/put", resp.UploadURL)
		assert.Equal(t, "https://cdn.example.com/"+resp.ObjectKey, resp.ImageURL)
	})

	t.Run("storage disabled", func(t *testing.T) {
		svc := NewProductService(new(MockProductRepository))
		_, err := svc.CreateUploadURL(ctx, storeID, UploadURLRequest{FileName: "a.png", ContentType: "image/png"})
		assert.ErrorIs(t, err, ErrStorageDisabled)
	})
}

func TestProductListQuery_ToFilter(t *testing.T) {
	active := true
	f := ProductListQuery{Search: "rice", Category: "Grocery", IsActive: &active, PageSize: 500, OrderBy: "price", OrderDir: "asc"}.ToFilter()
	assert.Equal(t, "rice", f.Search)
	assert.Equal(t, "Grocery", f.Filters["category"])
	assert.Equal(t, true, f.Filters["is_active"])
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "price", f.OrderBy)
	assert.Equal(t, "asc", f.OrderDir)
}
