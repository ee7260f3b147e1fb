package handler

import (
	"context"
	"io"

	aiapp "github.com/bizgrow/backend/internal/application/ai"
	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	dashboardapp "github.com/bizgrow/backend/internal/application/dashboard"
	identityapp "github.com/bizgrow/backend/internal/application/identity"
	notificationapp "github.com/bizgrow/backend/internal/application/notification"
	orderapp "github.com/bizgrow/backend/internal/application/order"
	shoppingapp "github.com/bizgrow/backend/internal/application/shopping"
	storeapp "github.com/bizgrow/backend/internal/application/store"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// first returns the first mocked value as T, or the zero value when it is nil
func first[T any](args mock.Arguments) T {
	var zero T
	if v := args.Get(0); v != nil {
		return v.(T)
	}
	return zero
}

type MockStoreService struct{ mock.Mock }

func (m *MockStoreService) Create(ctx context.Context, ownerID uuid.UUID, req storeapp.CreateStoreRequest) (*storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID, req)
	return first[*storeapp.StoreResponse](args), args.Error(1)
}

func (m *MockStoreService) Get(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID, storeID)
	return first[*storeapp.StoreResponse](args), args.Error(1)
}

func (m *MockStoreService) GetBySlug(ctx context.Context, slug string) (*storeapp.PublicStoreResponse, error) {
	args := m.Called(ctx, slug)
	return first[*storeapp.PublicStoreResponse](args), args.Error(1)
}

func (m *MockStoreService) ListMine(ctx context.Context, ownerID uuid.UUID) ([]storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID)
	return first[[]storeapp.StoreResponse](args), args.Error(1)
}

func (m *MockStoreService) Update(ctx context.Context, ownerID, storeID uuid.UUID, req storeapp.UpdateStoreRequest) (*storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID, storeID, req)
	return first[*storeapp.StoreResponse](args), args.Error(1)
}

func (m *MockStoreService) Activate(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID, storeID)
	return first[*storeapp.StoreResponse](args), args.Error(1)
}

func (m *MockStoreService) Deactivate(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error) {
	args := m.Called(ctx, ownerID, storeID)
	return first[*storeapp.StoreResponse](args), args.Error(1)
}

type MockProductService struct{ mock.Mock }

func (m *MockProductService) Create(ctx context.Context, storeID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, req)
	return first[*catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, storeID, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, id, req)
	return first[*catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return m.Called(ctx, storeID, id).Error(0)
}

func (m *MockProductService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, id)
	return first[*catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockProductService) GetPublic(ctx context.Context, storeID, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, id)
	return first[*catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, storeID, filter)
	return first[*shared.Paginated[catalogapp.ProductResponse]](args), args.Error(1)
}

func (m *MockProductService) ListPublic(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error) {
	args := m.Called(ctx, storeID, filter)
	return first[*shared.Paginated[catalogapp.ProductResponse]](args), args.Error(1)
}

func (m *MockProductService) LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, limit)
	return first[[]catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockProductService) Categories(ctx context.Context, storeID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, storeID)
	return first[[]string](args), args.Error(1)
}

func (m *MockProductService) CreateUploadURL(ctx context.Context, storeID uuid.UUID, req catalogapp.UploadURLRequest) (*catalogapp.UploadURLResponse, error) {
	args := m.Called(ctx, storeID, req)
	return first[*catalogapp.UploadURLResponse](args), args.Error(1)
}

type MockProductTransfer struct{ mock.Mock }

func (m *MockProductTransfer) ImportProducts(ctx context.Context, storeID uuid.UUID, r io.Reader, mode catalogapp.ConflictMode) (*catalogapp.ImportResult, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, storeID, string(body), mode)
	return first[*catalogapp.ImportResult](args), args.Error(1)
}

func (m *MockProductTransfer) ExportProducts(ctx context.Context, storeID uuid.UUID, w io.Writer) error {
	args := m.Called(ctx, storeID)
	_, _ = io.WriteString(w, args.String(0))
	return args.Error(1)
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateOrder(ctx context.Context, req orderapp.CreateOrderRequest, idempotencyKey string) (*orderapp.CreateOrderResponse, error) {
	args := m.Called(ctx, req, idempotencyKey)
	return first[*orderapp.CreateOrderResponse](args), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[orderapp.OrderResponse], error) {
	args := m.Called(ctx, storeID, filter)
	return first[*shared.Paginated[orderapp.OrderResponse]](args), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, storeID, id uuid.UUID) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, id)
	return first[*orderapp.OrderResponse](args), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, id, req)
	return first[*orderapp.OrderResponse](args), args.Error(1)
}

func (m *MockOrderService) ListCustomers(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[orderapp.CustomerResponse], error) {
	args := m.Called(ctx, storeID, filter)
	return first[*shared.Paginated[orderapp.CustomerResponse]](args), args.Error(1)
}

func (m *MockOrderService) Invoice(ctx context.Context, storeID, id uuid.UUID) ([]byte, string, error) {
	args := m.Called(ctx, storeID, id)
	return first[[]byte](args), args.String(1), args.Error(2)
}

func (m *MockOrderService) ExportOrders(ctx context.Context, storeID uuid.UUID, filter shared.Filter, w io.Writer) error {
	args := m.Called(ctx, storeID, filter)
	_, _ = io.WriteString(w, args.String(0))
	return args.Error(1)
}

type MockNotificationService struct{ mock.Mock }

func (m *MockNotificationService) List(ctx context.Context, storeID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[notificationapp.NotificationResponse], error) {
	args := m.Called(ctx, storeID, unreadOnly, filter)
	return first[*shared.Paginated[notificationapp.NotificationResponse]](args), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, storeID, id uuid.UUID) (*notificationapp.NotificationResponse, error) {
	args := m.Called(ctx, storeID, id)
	return first[*notificationapp.NotificationResponse](args), args.Error(1)
}

func (m *MockNotificationService) MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationService) UnreadCount(ctx context.Context, storeID uuid.UUID) (int64, error) {
	args := m.Called(ctx, storeID)
	return args.Get(0).(int64), args.Error(1)
}

type MockShoppingService struct{ mock.Mock }

func (m *MockShoppingService) GetCart(ctx context.Context, userID, storeID uuid.UUID) (*shoppingapp.CartResponse, error) {
	args := m.Called(ctx, userID, storeID)
	return first[*shoppingapp.CartResponse](args), args.Error(1)
}

func (m *MockShoppingService) ReplaceCart(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.ReplaceCartRequest) (*shoppingapp.CartResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	return first[*shoppingapp.CartResponse](args), args.Error(1)
}

func (m *MockShoppingService) AddItem(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.CartItemRequest) (*shoppingapp.CartResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	return first[*shoppingapp.CartResponse](args), args.Error(1)
}

func (m *MockShoppingService) UpdateQuantity(ctx context.Context, userID, storeID, productID uuid.UUID, req shoppingapp.UpdateQuantityRequest) (*shoppingapp.CartResponse, error) {
	args := m.Called(ctx, userID, storeID, productID, req)
	return first[*shoppingapp.CartResponse](args), args.Error(1)
}

func (m *MockShoppingService) RemoveItem(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.CartResponse, error) {
	args := m.Called(ctx, userID, storeID, productID)
	return first[*shoppingapp.CartResponse](args), args.Error(1)
}

func (m *MockShoppingService) ClearCart(ctx context.Context, userID, storeID uuid.UUID) error {
	return m.Called(ctx, userID, storeID).Error(0)
}

func (m *MockShoppingService) GetWishlist(ctx context.Context, userID, storeID uuid.UUID) (*shoppingapp.WishlistResponse, error) {
	args := m.Called(ctx, userID, storeID)
	return first[*shoppingapp.WishlistResponse](args), args.Error(1)
}

func (m *MockShoppingService) AddToWishlist(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.WishlistItemRequest) (*shoppingapp.WishlistResponse, error) {
	args := m.Called(ctx, userID, storeID, req)
	return first[*shoppingapp.WishlistResponse](args), args.Error(1)
}

func (m *MockShoppingService) RemoveFromWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.WishlistResponse, error) {
	args := m.Called(ctx, userID, storeID, productID)
	return first[*shoppingapp.WishlistResponse](args), args.Error(1)
}

func (m *MockShoppingService) ToggleWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.ToggleResponse, error) {
	args := m.Called(ctx, userID, storeID, productID)
	return first[*shoppingapp.ToggleResponse](args), args.Error(1)
}

func (m *MockShoppingService) Merge(ctx context.Context, userID uuid.UUID, local shoppingapp.LocalState) (*shoppingapp.MergeResponse, error) {
	args := m.Called(ctx, userID, local)
	return first[*shoppingapp.MergeResponse](args), args.Error(1)
}

type MockDashboardService struct{ mock.Mock }

func (m *MockDashboardService) Stats(ctx context.Context, storeID uuid.UUID) (*dashboardapp.StatsResponse, error) {
	args := m.Called(ctx, storeID)
	return first[*dashboardapp.StatsResponse](args), args.Error(1)
}

func (m *MockDashboardService) RecentOrders(ctx context.Context, storeID uuid.UUID, limit int) ([]orderapp.OrderResponse, error) {
	args := m.Called(ctx, storeID, limit)
	return first[[]orderapp.OrderResponse](args), args.Error(1)
}

func (m *MockDashboardService) TopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]dashboardapp.TopProductResponse, error) {
	args := m.Called(ctx, storeID, limit)
	return first[[]dashboardapp.TopProductResponse](args), args.Error(1)
}

func (m *MockDashboardService) LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]catalogapp.ProductResponse, error) {
	args := m.Called(ctx, storeID, limit)
	return first[[]catalogapp.ProductResponse](args), args.Error(1)
}

func (m *MockDashboardService) Overview(ctx context.Context, storeID uuid.UUID, limit int) (*dashboardapp.OverviewResponse, error) {
	args := m.Called(ctx, storeID, limit)
	return first[*dashboardapp.OverviewResponse](args), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.AuthResponse, error) {
	args := m.Called(ctx, req)
	return first[*identityapp.AuthResponse](args), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.AuthResponse, error) {
	args := m.Called(ctx, req)
	return first[*identityapp.AuthResponse](args), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResponse, error) {
	args := m.Called(ctx, req)
	return first[*identityapp.AuthResponse](args), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, access *auth.Claims, req identityapp.LogoutRequest) error {
	return m.Called(ctx, access, req).Error(0)
}

func (m *MockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID)
	return first[*identityapp.UserResponse](args), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.UserResponse, error) {
	args := m.Called(ctx, userID, req)
	return first[*identityapp.UserResponse](args), args.Error(1)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error {
	return m.Called(ctx, userID, req).Error(0)
}

type MockProductDetector struct{ mock.Mock }

func (m *MockProductDetector) Detect(ctx context.Context, req aiapp.DetectProductsRequest) (*aiapp.DetectProductsResponse, error) {
	args := m.Called(ctx, req)
	return first[*aiapp.DetectProductsResponse](args), args.Error(1)
}

type MockCategoryImageProvider struct{ mock.Mock }

func (m *MockCategoryImageProvider) GetOrGenerate(ctx context.Context, req aiapp.CategoryImageRequest) (*aiapp.CategoryImageResponse, error) {
	args := m.Called(ctx, req)
	return first[*aiapp.CategoryImageResponse](args), args.Error(1)
}
