package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	orderapp "github.com/bizgrow/backend/internal/application/order"
	storeapp "github.com/bizgrow/backend/internal/application/store"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type storefrontMocks struct {
	stores   *MockStoreService
	products *MockProductService
	orders   *MockOrderService
}

func newStorefrontRouter() (*gin.Engine, storefrontMocks) {
	m := storefrontMocks{new(MockStoreService), new(MockProductService), new(MockOrderService)}
	h := NewStorefrontHandler(m.stores, m.products, m.orders)
	router := gin.New()
	g := router.Group("/storefront")
	g.GET("/stores/:slug", h.GetStore)
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/categories", h.Categories)
	g.POST("/orders", h.CreateOrder)
	return router, m
}

func TestStorefrontHandler_GetStore(t *testing.T) {
	router, m := newStorefrontRouter()
	m.stores.On("GetBySlug", mock.Anything, "sharma-kirana").
		Return(&storeapp.PublicStoreResponse{Name: "Sharma Kirana", Currency: "INR"}, nil)
	m.stores.On("GetBySlug", mock.Anything, "closed-shop").Return(nil, shared.ErrNotFound)

	w, resp := doJSON(t, router, http.MethodGet, "/storefront/stores/sharma-kirana", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var out storeapp.PublicStoreResponse
	decodeData(t, resp, &out)
	assert.Equal(t, "INR", out.Currency)

	w, _ = doJSON(t, router, http.MethodGet, "/storefront/stores/closed-shop", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStorefrontHandler_ListProducts(t *testing.T) {
	storeID := uuid.New()

	t.Run("requires store_id", func(t *testing.T) {
		router, _ := newStorefrontRouter()

		w, resp := doJSON(t, router, http.MethodGet, "/storefront/products", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidationRequired, resp.Error.Code)
	})

	t.Run("ignores is_active from shoppers", func(t *testing.T) {
		router, m := newStorefrontRouter()
		page := shared.NewPaginated([]catalogapp.ProductResponse{{Name: "Atta"}}, 1, 1, 20)
		m.products.On("ListPublic", mock.Anything, storeID, mock.MatchedBy(func(f shared.Filter) bool {
			_, hasActive := f.Filters["is_active"]
			return !hasActive && f.Filters["category"] == "Flour"
		})).Return(&page, nil)

		w, resp := doJSON(t, router, http.MethodGet, "/storefront/products?store_id="+storeID.String()+"&category=Flour&is_active=false", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(1), resp.Meta.Total)
		m.products.AssertExpectations(t)
	})
}

func TestStorefrontHandler_GetProduct(t *testing.T) {
	storeID, productID := uuid.New(), uuid.New()
	router, m := newStorefrontRouter()
	m.products.On("GetPublic", mock.Anything, storeID, productID).Return(nil, shared.ErrNotFound)

	w, _ := doJSON(t, router, http.MethodGet, "/storefront/products/"+productID.String()+"?store_id="+storeID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	m.products.AssertExpectations(t)
}

func TestStorefrontHandler_Categories(t *testing.T) {
	storeID := uuid.New()
	router, m := newStorefrontRouter()
	m.products.On("Categories", mock.Anything, storeID).Return([]string{"Dairy"}, nil)

	_, resp := doJSON(t, router, http.MethodGet, "/storefront/categories?store_id="+storeID.String(), nil)

	assert.Equal(t, []any{"Dairy"}, resp.Data)
}

func checkoutBody(storeID uuid.UUID) map[string]any {
	return map[string]any{
		"store_id":         storeID,
		"customer_name":    "Ravi",
		"customer_phone":   "9876543210",
		"customer_address": "12 MG Road, Pune",
		"delivery_mode":    "delivery",
		"items": []map[string]any{
			{"product_id": uuid.New(), "name": "Toor Dal 1kg", "price": "149.50", "quantity": 2},
		},
	}
}

func TestStorefrontHandler_CreateOrder(t *testing.T) {
	storeID := uuid.New()

	t.Run("passes the idempotency key", func(t *testing.T) {
		router, m := newStorefrontRouter()
		m.orders.On("CreateOrder", mock.Anything, mock.MatchedBy(func(r orderapp.CreateOrderRequest) bool {
			return r.StoreID == storeID && len(r.Items) == 1 && r.Items[0].Quantity == 2
		}), "checkout-7f3a").Return(&orderapp.CreateOrderResponse{
			OrderNumber: "ORD-20260115-3F9A2C",
			Status:      "pending",
			Total:       decimal.RequireFromString("339"),
		}, nil)

		req := httptest.NewRequest(http.MethodPost, "/storefront/orders", strings.NewReader(toJSON(t, checkoutBody(storeID))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, "  checkout-7f3a ")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "ORD-20260115-3F9A2C")
		m.orders.AssertExpectations(t)
	})

	t.Run("oversized key is dropped", func(t *testing.T) {
		router, m := newStorefrontRouter()
		m.orders.On("CreateOrder", mock.Anything, mock.Anything, "").Return(&orderapp.CreateOrderResponse{}, nil)

		req := httptest.NewRequest(http.MethodPost, "/storefront/orders", strings.NewReader(toJSON(t, checkoutBody(storeID))))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(IdempotencyKeyHeader, strings.Repeat("k", maxIdempotencyKeyLength+1))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		m.orders.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name  string
			edit  func(map[string]any)
			field string
		}{
			{"no items", func(b map[string]any) { b["items"] = []map[string]any{} }, "items"},
			{"bad mode", func(b map[string]any) { b["delivery_mode"] = "drone" }, "delivery_mode"},
			{"no phone", func(b map[string]any) { delete(b, "customer_phone") }, "customer_phone"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router, m := newStorefrontRouter()
				body := checkoutBody(storeID)
				tt.edit(body)

				w, resp := doJSON(t, router, http.MethodPost, "/storefront/orders", body)

				assert.Equal(t, http.StatusBadRequest, w.Code)
				require.NotEmpty(t, resp.Error.Details)
				assert.Equal(t, tt.field, resp.Error.Details[0].Field)
				m.orders.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("in-flight duplicate", func(t *testing.T) {
		router, m := newStorefrontRouter()
		m.orders.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("REQUEST_IN_PROGRESS", "Order is already being placed"))

		w, resp := doJSON(t, router, http.MethodPost, "/storefront/orders", checkoutBody(storeID))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeRequestInProgress, resp.Error.Code)
	})
}
