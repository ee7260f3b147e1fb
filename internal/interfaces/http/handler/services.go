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
)

// The interfaces below are the slices of the application services each
// handler calls. The services in internal/application satisfy them.

// StoreService manages a merchant's stores
type StoreService interface {
	Create(ctx context.Context, ownerID uuid.UUID, req storeapp.CreateStoreRequest) (*storeapp.StoreResponse, error)
	Get(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error)
	GetBySlug(ctx context.Context, slug string) (*storeapp.PublicStoreResponse, error)
	ListMine(ctx context.Context, ownerID uuid.UUID) ([]storeapp.StoreResponse, error)
	Update(ctx context.Context, ownerID, storeID uuid.UUID, req storeapp.UpdateStoreRequest) (*storeapp.StoreResponse, error)
	Activate(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error)
	Deactivate(ctx context.Context, ownerID, storeID uuid.UUID) (*storeapp.StoreResponse, error)
}

// ProductService manages a store's catalog
type ProductService interface {
	Create(ctx context.Context, storeID uuid.UUID, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	Update(ctx context.Context, storeID, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*catalogapp.ProductResponse, error)
	GetPublic(ctx context.Context, storeID, id uuid.UUID) (*catalogapp.ProductResponse, error)
	List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error)
	ListPublic(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[catalogapp.ProductResponse], error)
	LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]catalogapp.ProductResponse, error)
	Categories(ctx context.Context, storeID uuid.UUID) ([]string, error)
	CreateUploadURL(ctx context.Context, storeID uuid.UUID, req catalogapp.UploadURLRequest) (*catalogapp.UploadURLResponse, error)
}

// ProductTransfer moves a catalog in and out as CSV
type ProductTransfer interface {
	ImportProducts(ctx context.Context, storeID uuid.UUID, r io.Reader, mode catalogapp.ConflictMode) (*catalogapp.ImportResult, error)
	ExportProducts(ctx context.Context, storeID uuid.UUID, w io.Writer) error
}

// OrderService takes storefront orders and serves them to the merchant
type OrderService interface {
	CreateOrder(ctx context.Context, req orderapp.CreateOrderRequest, idempotencyKey string) (*orderapp.CreateOrderResponse, error)
	List(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[orderapp.OrderResponse], error)
	GetByID(ctx context.Context, storeID, id uuid.UUID) (*orderapp.OrderResponse, error)
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, req orderapp.UpdateStatusRequest) (*orderapp.OrderResponse, error)
	ListCustomers(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (*shared.Paginated[orderapp.CustomerResponse], error)
	Invoice(ctx context.Context, storeID, id uuid.UUID) ([]byte, string, error)
	ExportOrders(ctx context.Context, storeID uuid.UUID, filter shared.Filter, w io.Writer) error
}

// NotificationService serves the merchant's notification bell
type NotificationService interface {
	List(ctx context.Context, storeID uuid.UUID, unreadOnly bool, filter shared.Filter) (*shared.Paginated[notificationapp.NotificationResponse], error)
	MarkRead(ctx context.Context, storeID, id uuid.UUID) (*notificationapp.NotificationResponse, error)
	MarkAllRead(ctx context.Context, storeID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, storeID uuid.UUID) (int64, error)
}

// ShoppingService keeps signed-in shoppers' carts and wishlists
type ShoppingService interface {
	GetCart(ctx context.Context, userID, storeID uuid.UUID) (*shoppingapp.CartResponse, error)
	ReplaceCart(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.ReplaceCartRequest) (*shoppingapp.CartResponse, error)
	AddItem(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.CartItemRequest) (*shoppingapp.CartResponse, error)
	UpdateQuantity(ctx context.Context, userID, storeID, productID uuid.UUID, req shoppingapp.UpdateQuantityRequest) (*shoppingapp.CartResponse, error)
	RemoveItem(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.CartResponse, error)
	ClearCart(ctx context.Context, userID, storeID uuid.UUID) error
	GetWishlist(ctx context.Context, userID, storeID uuid.UUID) (*shoppingapp.WishlistResponse, error)
	AddToWishlist(ctx context.Context, userID, storeID uuid.UUID, req shoppingapp.WishlistItemRequest) (*shoppingapp.WishlistResponse, error)
	RemoveFromWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.WishlistResponse, error)
	ToggleWishlist(ctx context.Context, userID, storeID, productID uuid.UUID) (*shoppingapp.ToggleResponse, error)
	Merge(ctx context.Context, userID uuid.UUID, local shoppingapp.LocalState) (*shoppingapp.MergeResponse, error)
}

// DashboardService reads the dashboard aggregates
type DashboardService interface {
	Stats(ctx context.Context, storeID uuid.UUID) (*dashboardapp.StatsResponse, error)
	RecentOrders(ctx context.Context, storeID uuid.UUID, limit int) ([]orderapp.OrderResponse, error)
	TopProducts(ctx context.Context, storeID uuid.UUID, limit int) ([]dashboardapp.TopProductResponse, error)
	LowStock(ctx context.Context, storeID uuid.UUID, limit int) ([]catalogapp.ProductResponse, error)
	Overview(ctx context.Context, storeID uuid.UUID, limit int) (*dashboardapp.OverviewResponse, error)
}

// AuthService signs users up and in
type AuthService interface {
	Register(ctx context.Context, req identityapp.RegisterRequest) (*identityapp.AuthResponse, error)
	Login(ctx context.Context, req identityapp.LoginRequest) (*identityapp.AuthResponse, error)
	Refresh(ctx context.Context, req identityapp.RefreshRequest) (*identityapp.AuthResponse, error)
	Logout(ctx context.Context, access *auth.Claims, req identityapp.LogoutRequest) error
	Me(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req identityapp.UpdateProfileRequest) (*identityapp.UserResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req identityapp.ChangePasswordRequest) error
}

// ProductDetector extracts draft products from photos
type ProductDetector interface {
	Detect(ctx context.Context, req aiapp.DetectProductsRequest) (*aiapp.DetectProductsResponse, error)
}

// CategoryImageProvider returns artwork for a category
type CategoryImageProvider interface {
	GetOrGenerate(ctx context.Context, req aiapp.CategoryImageRequest) (*aiapp.CategoryImageResponse, error)
}

var (
	_ StoreService          = (*storeapp.StoreService)(nil)
	_ ProductService        = (*catalogapp.ProductService)(nil)
	_ ProductTransfer       = (*catalogapp.ImportService)(nil)
	_ OrderService          = (*orderapp.OrderService)(nil)
	_ NotificationService   = (*notificationapp.NotificationService)(nil)
	_ ShoppingService       = (*shoppingapp.ShoppingService)(nil)
	_ DashboardService      = (*dashboardapp.DashboardService)(nil)
	_ AuthService           = (*identityapp.AuthService)(nil)
	_ ProductDetector       = (*aiapp.DetectionService)(nil)
	_ CategoryImageProvider = (*aiapp.CategoryImageService)(nil)
)
