package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/auth"
	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/bizgrow/backend/internal/infrastructure/realtime"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/bizgrow/backend/internal/interfaces/http/handler"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	api := Mount(engine, "v2", group)

	assert.Equal(t, "/api/v2", api.BasePath())
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("paths and count", func(t *testing.T) {
		noop := func(c *gin.Context) {}
		g := NewDomainGroup("stores", "/stores").GET("", noop)
		g.Group("store", "/:store_id").GET("/orders", noop).PATCH("/orders/:id/status", noop)

		assert.Equal(t, 3, g.Count())
		assert.Equal(t, []string{
			"GET /stores",
			"GET /stores/:store_id/orders",
			"PATCH /stores/:store_id/orders/:id/status",
		}, g.Paths())
	})

	t.Run("every method", func(t *testing.T) {
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("items", "/items")
		g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)

		engine := gin.New()
		g.RegisterRoutes(engine.Group("/api/v1"))

		for _, tc := range []struct{ method, path string }{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
		} {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tc.method)
			assert.Equal(t, tc.method, w.Body.String())
		}
	})

	t.Run("subgroups inherit middleware", func(t *testing.T) {
		var trail []string
		mark := func(name string) gin.HandlerFunc {
			return func(c *gin.Context) {
				trail = append(trail, name)
				c.Next()
			}
		}

		g := NewDomainGroup("stores", "/stores").Use(mark("auth"))
		g.Group("store", "/:store_id").Use(mark("access")).GET("/orders", func(c *gin.Context) {
			trail = append(trail, "handler:"+c.Param("store_id"))
			c.Status(http.StatusOK)
		})

		engine := gin.New()
		g.RegisterRoutes(engine.Group("/api/v1"))
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stores/s1/orders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"auth", "access", "handler:s1"}, trail)
	})
}

// roleTokens accepts "<role>-token" and rejects everything else
type roleTokens struct{}

func (roleTokens) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	role, ok := strings.CutSuffix(token, "-token")
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: uuid.NewString(), Role: role}, nil
}

type ownerCheck struct{ err error }

func (o ownerCheck) VerifyOwner(context.Context, uuid.UUID, uuid.UUID) error {
	return o.err
}

// testHandlers wires handlers without services; tests only hit routes that
// are rejected before the handler runs, or that need no service
func testHandlers() Handlers {
	return Handlers{
		Auth:          handler.NewAuthHandler(nil),
		Store:         handler.NewStoreHandler(nil),
		Product:       handler.NewProductHandler(nil),
		ProductImport: handler.NewProductImportHandler(nil),
		Order:         handler.NewOrderHandler(nil),
		Notification:  handler.NewNotificationHandler(nil, realtime.NewHub(), time.Second),
		Shopping:      handler.NewShoppingHandler(nil),
		Storefront:    handler.NewStorefrontHandler(nil, nil, nil),
		Dashboard:     handler.NewDashboardHandler(nil),
		AI:            handler.NewAIHandler(nil, nil),
		System:        handler.NewSystemHandler("test"),
	}
}

func newTestEngine(t *testing.T, owners middleware.StoreOwnerVerifier) *gin.Engine {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewEngine(EngineConfig{
		HTTP:     config.HTTPConfig{MaxBodySize: 1 << 10},
		Swagger:  config.SwaggerConfig{Enabled: false},
		Metrics:  middleware.NewHTTPMetrics(reg),
		Gatherer: reg,
	}, testHandlers(), Guards{Authenticator: roleTokens{}, StoreOwners: owners})
}

func do(engine http.Handler, method, path, token string, body string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestNewEngine_RouteTable(t *testing.T) {
	engine := newTestEngine(t, ownerCheck{})

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /health",
		"GET /metrics",
		"GET /api/v1/system/info",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"PUT /api/v1/auth/me",
		"PUT /api/v1/auth/password",
		"GET /api/v1/storefront/stores/:slug",
		"GET /api/v1/storefront/products",
		"GET /api/v1/storefront/products/:id",
		"GET /api/v1/storefront/categories",
		"POST /api/v1/storefront/orders",
		"GET /api/v1/cart",
		"PUT /api/v1/cart",
		"DELETE /api/v1/cart",
		"POST /api/v1/cart/items",
		"PATCH /api/v1/cart/items/:product_id",
		"DELETE /api/v1/cart/items/:product_id",
		"GET /api/v1/wishlist",
		"POST /api/v1/wishlist/items",
		"DELETE /api/v1/wishlist/items/:product_id",
		"POST /api/v1/wishlist/items/:product_id/toggle",
		"POST /api/v1/shopping/merge",
		"POST /api/v1/ai/product-detection",
		"POST /api/v1/ai/category-image",
		"POST /api/v1/stores",
		"GET /api/v1/stores",
		"GET /api/v1/stores/:store_id",
		"PUT /api/v1/stores/:store_id",
		"POST /api/v1/stores/:store_id/activate",
		"POST /api/v1/stores/:store_id/deactivate",
		"POST /api/v1/stores/:store_id/products",
		"GET /api/v1/stores/:store_id/products",
		"GET /api/v1/stores/:store_id/products/:id",
		"PUT /api/v1/stores/:store_id/products/:id",
		"DELETE /api/v1/stores/:store_id/products/:id",
		"GET /api/v1/stores/:store_id/products/low-stock",
		"GET /api/v1/stores/:store_id/products/categories",
		"POST /api/v1/stores/:store_id/products/upload-url",
		"POST /api/v1/stores/:store_id/products/import",
		"GET /api/v1/stores/:store_id/products/export",
		"GET /api/v1/stores/:store_id/orders",
		"GET /api/v1/stores/:store_id/orders/export",
		"GET /api/v1/stores/:store_id/orders/:id",
		"PATCH /api/v1/stores/:store_id/orders/:id/status",
		"GET /api/v1/stores/:store_id/orders/:id/invoice",
		"GET /api/v1/stores/:store_id/customers",
		"GET /api/v1/stores/:store_id/notifications",
		"GET /api/v1/stores/:store_id/notifications/unread-count",
		"PATCH /api/v1/stores/:store_id/notifications/:id/read",
		"POST /api/v1/stores/:store_id/notifications/read-all",
		"GET /api/v1/stores/:store_id/notifications/stream",
		"GET /api/v1/stores/:store_id/ws",
		"GET /api/v1/stores/:store_id/dashboard/overview",
		"GET /api/v1/stores/:store_id/dashboard/stats",
		"GET /api/v1/stores/:store_id/dashboard/recent-orders",
		"GET /api/v1/stores/:store_id/dashboard/top-products",
		"GET /api/v1/stores/:store_id/dashboard/low-stock",
	}
	for _, route := range want {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestNewEngine_PublicEndpoints(t *testing.T) {
	engine := newTestEngine(t, ownerCheck{})

	w, _ := do(engine, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w, resp := do(engine, http.MethodGet, "/api/v1/system/info", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)

	w, resp = do(engine, http.MethodGet, "/api/v1/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)

	w, _ = do(engine, http.MethodGet, "/swagger/index.html", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(engine, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bizgrow_http_requests_total")
}

func TestNewEngine_Guards(t *testing.T) {
	storeID := uuid.NewString()

	tests := []struct {
		name   string
		owners middleware.StoreOwnerVerifier
		method string
		path   string
		token  string
		status int
	}{
		{"cart needs a session", ownerCheck{}, http.MethodGet, "/api/v1/cart?store_id=" + storeID, "", http.StatusUnauthorized},
		{"logout needs a session", ownerCheck{}, http.MethodPost, "/api/v1/auth/logout", "", http.StatusUnauthorized},
		{"shoppers cannot open stores", ownerCheck{}, http.MethodPost, "/api/v1/stores", "shopper-token", http.StatusForbidden},
		{"shoppers cannot use ai", ownerCheck{}, http.MethodPost, "/api/v1/ai/category-image", "shopper-token", http.StatusForbidden},
		{"other merchant's store", ownerCheck{err: shared.ErrForbidden}, http.MethodGet, "/api/v1/stores/" + storeID + "/orders", "merchant-token", http.StatusForbidden},
		{"unknown store", ownerCheck{err: shared.ErrNotFound}, http.MethodGet, "/api/v1/stores/" + storeID + "/dashboard/stats", "merchant-token", http.StatusNotFound},
		{"malformed store id", ownerCheck{}, http.MethodGet, "/api/v1/stores/abc/orders", "merchant-token", http.StatusBadRequest},
		{"stream rejects shoppers", ownerCheck{}, http.MethodGet, "/api/v1/stores/" + storeID + "/notifications/stream?access_token=shopper-token", "", http.StatusForbidden},
		{"stream needs a token", ownerCheck{}, http.MethodGet, "/api/v1/stores/" + storeID + "/ws", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(t, tt.owners)

			w, _ := do(engine, tt.method, tt.path, tt.token, "")

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestNewEngine_BodyLimits(t *testing.T) {
	engine := newTestEngine(t, ownerCheck{})
	big := `{"email":"` + strings.Repeat("a", 2<<10) + `"}`

	w, resp := do(engine, http.MethodPost, "/api/v1/auth/login", "", big)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, middleware.ErrCodeRequestTooLarge, resp.Error.Code)

	// the import route allows larger bodies, so the request reaches auth
	w, _ = do(engine, http.MethodPost, "/api/v1/stores/"+uuid.NewString()+"/products/import", "", big)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBodyLimitOverrides(t *testing.T) {
	overrides := BodyLimitOverrides("v1")

	assert.Equal(t, ImportBodyLimit, overrides["/api/v1/stores/:store_id/products/import"])
	assert.Equal(t, DetectionBodyLimit, overrides["/api/v1/ai/product-detection"])
	assert.Greater(t, ImportBodyLimit, int64(handler.MaxImportFileSize))
}
