package router

import (
	"github.com/bizgrow/backend/internal/domain/identity"
	"github.com/bizgrow/backend/internal/interfaces/http/handler"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
)

// Body limits for the routes that accept more than the default
const (
	ImportBodyLimit    int64 = handler.MaxImportFileSize + 1<<20
	DetectionBodyLimit int64 = 25 << 20
)

// Handlers are the HTTP handlers mounted under the API prefix
type Handlers struct {
	Auth          *handler.AuthHandler
	Store         *handler.StoreHandler
	Product       *handler.ProductHandler
	ProductImport *handler.ProductImportHandler
	Order         *handler.OrderHandler
	Notification  *handler.NotificationHandler
	Shopping      *handler.ShoppingHandler
	Storefront    *handler.StorefrontHandler
	Dashboard     *handler.DashboardHandler
	AI            *handler.AIHandler
	System        *handler.SystemHandler
}

// Guards carry what the authentication middleware needs
type Guards struct {
	Authenticator middleware.Authenticator
	StoreOwners   middleware.StoreOwnerVerifier
}

// BodyLimitOverrides maps full route patterns to their body limit
func BodyLimitOverrides(apiVersion string) map[string]int64 {
	prefix := "/api/" + apiVersion
	return map[string]int64{
		prefix + "/stores/:store_id/products/import": ImportBodyLimit,
		prefix + "/ai/product-detection":             DetectionBodyLimit,
	}
}

// APIGroups builds every route group of the API
func APIGroups(h Handlers, g Guards) []RouteRegistrar {
	requireAuth := middleware.JWTAuthMiddleware(g.Authenticator)
	merchantOnly := middleware.RequireRole(string(identity.RoleMerchant))
	storeAccess := middleware.StoreAccess(g.StoreOwners)

	system := NewDomainGroup("system", "/system")
	system.GET("/info", h.System.GetSystemInfo)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	session := auth.Group("session", "").Use(requireAuth)
	session.POST("/logout", h.Auth.Logout)
	session.GET("/me", h.Auth.Me)
	session.PUT("/me", h.Auth.UpdateProfile)
	session.PUT("/password", h.Auth.ChangePassword)

	storefront := NewDomainGroup("storefront", "/storefront")
	storefront.GET("/stores/:slug", h.Storefront.GetStore)
	storefront.GET("/products", h.Storefront.ListProducts)
	storefront.GET("/products/:id", h.Storefront.GetProduct)
	storefront.GET("/categories", h.Storefront.Categories)
	storefront.POST("/orders", h.Storefront.CreateOrder)

	cart := NewDomainGroup("cart", "/cart").Use(requireAuth)
	cart.GET("", h.Shopping.GetCart)
	cart.PUT("", h.Shopping.ReplaceCart)
	cart.DELETE("", h.Shopping.ClearCart)
	cart.POST("/items", h.Shopping.AddItem)
	cart.PATCH("/items/:product_id", h.Shopping.UpdateQuantity)
	cart.DELETE("/items/:product_id", h.Shopping.RemoveItem)

	wishlist := NewDomainGroup("wishlist", "/wishlist").Use(requireAuth)
	wishlist.GET("", h.Shopping.GetWishlist)
	wishlist.POST("/items", h.Shopping.AddToWishlist)
	wishlist.DELETE("/items/:product_id", h.Shopping.RemoveFromWishlist)
	wishlist.POST("/items/:product_id/toggle", h.Shopping.ToggleWishlist)

	shopping := NewDomainGroup("shopping", "/shopping").Use(requireAuth)
	shopping.POST("/merge", h.Shopping.Merge)

	ai := NewDomainGroup("ai", "/ai").Use(requireAuth, merchantOnly)
	ai.POST("/product-detection", h.AI.DetectProducts)
	ai.POST("/category-image", h.AI.CategoryImage)

	stores := NewDomainGroup("stores", "/stores").Use(requireAuth, merchantOnly)
	stores.POST("", h.Store.Create)
	stores.GET("", h.Store.ListMine)

	store := stores.Group("store", "/:store_id").Use(storeAccess)
	store.GET("", h.Store.Get)
	store.PUT("", h.Store.Update)
	store.POST("/activate", h.Store.Activate)
	store.POST("/deactivate", h.Store.Deactivate)

	products := store.Group("products", "/products")
	products.POST("", h.Product.Create)
	products.GET("", h.Product.List)
	products.GET("/low-stock", h.Product.LowStock)
	products.GET("/categories", h.Product.Categories)
	products.POST("/upload-url", h.Product.CreateUploadURL)
	products.POST("/import", h.ProductImport.Import)
	products.GET("/export", h.ProductImport.Export)
	products.GET("/:id", h.Product.GetByID)
	products.PUT("/:id", h.Product.Update)
	products.DELETE("/:id", h.Product.Delete)

	orders := store.Group("orders", "/orders")
	orders.GET("", h.Order.List)
	orders.GET("/export", h.Order.Export)
	orders.GET("/:id", h.Order.GetByID)
	orders.PATCH("/:id/status", h.Order.UpdateStatus)
	orders.GET("/:id/invoice", h.Order.Invoice)

	store.GET("/customers", h.Order.ListCustomers)

	notifications := store.Group("notifications", "/notifications")
	notifications.GET("", h.Notification.List)
	notifications.GET("/unread-count", h.Notification.UnreadCount)
	notifications.PATCH("/:id/read", h.Notification.MarkRead)
	notifications.POST("/read-all", h.Notification.MarkAllRead)

	dashboard := store.Group("dashboard", "/dashboard")
	dashboard.GET("/overview", h.Dashboard.Overview)
	dashboard.GET("/stats", h.Dashboard.Stats)
	dashboard.GET("/recent-orders", h.Dashboard.RecentOrders)
	dashboard.GET("/top-products", h.Dashboard.TopProducts)
	dashboard.GET("/low-stock", h.Dashboard.LowStock)

	// EventSource and browser WebSocket clients send the token in the query string
	live := NewDomainGroup("live", "/stores/:store_id").
		Use(middleware.StreamJWTAuthMiddleware(g.Authenticator), merchantOnly, storeAccess)
	live.GET("/notifications/stream", h.Notification.Stream)
	live.GET("/ws", h.Notification.WebSocket)

	return []RouteRegistrar{system, auth, storefront, cart, wishlist, shopping, ai, stores, live}
}
