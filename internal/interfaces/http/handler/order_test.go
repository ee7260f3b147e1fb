package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	orderapp "github.com/bizgrow/backend/internal/application/order"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOrderRouter(svc *MockOrderService, storeID uuid.UUID) *gin.Engine {
	h := NewOrderHandler(svc)
	router := gin.New()
	g := router.Group("/stores/:store_id", asUser(uuid.New(), "merchant"), inStore(storeID))
	g.GET("/orders", h.List)
	g.GET("/orders/export", h.Export)
	g.GET("/orders/:id", h.GetByID)
	g.PATCH("/orders/:id/status", h.UpdateStatus)
	g.GET("/orders/:id/invoice", h.Invoice)
	g.GET("/customers", h.ListCustomers)
	return router
}

func TestOrderHandler_List(t *testing.T) {
	storeID := uuid.New()
	svc := new(MockOrderService)
	router := newOrderRouter(svc, storeID)

	page := shared.NewPaginated([]orderapp.OrderResponse{{OrderNumber: "ORD-20260115-3F9A2C", Status: "pending"}}, 1, 1, 20)
	svc.On("List", mock.Anything, storeID, mock.MatchedBy(func(f shared.Filter) bool {
		to, ok := f.Filters["to"].(time.Time)
		return f.Filters["status"] == "pending" && ok && to.Equal(time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC))
	})).Return(&page, nil)

	w, resp := doJSON(t, router, http.MethodGet, "/stores/"+storeID.String()+"/orders?status=pending&from=2026-01-01&to=2026-01-15", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(1), resp.Meta.Total)
	svc.AssertExpectations(t)
}

func TestOrderHandler_ListBadFilters(t *testing.T) {
	storeID := uuid.New()
	svc := new(MockOrderService)
	router := newOrderRouter(svc, storeID)
	base := "/stores/" + storeID.String() + "/orders"

	w, resp := doJSON(t, router, http.MethodGet, base+"?status=lost", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

	w, resp = doJSON(t, router, http.MethodGet, base+"?from=15/01/2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)

	assert.Empty(t, svc.Calls)
}

func TestOrderHandler_UpdateStatus(t *testing.T) {
	storeID, orderID := uuid.New(), uuid.New()
	path := "/stores/" + storeID.String() + "/orders/" + orderID.String() + "/status"

	t.Run("confirms", func(t *testing.T) {
		svc := new(MockOrderService)
		router := newOrderRouter(svc, storeID)
		svc.On("UpdateStatus", mock.Anything, storeID, orderID, orderapp.UpdateStatusRequest{Status: "confirmed"}).
			Return(&orderapp.OrderResponse{ID: orderID, Status: "confirmed"}, nil)

		w, resp := doJSON(t, router, http.MethodPatch, path, map[string]string{"status": "confirmed"})

		assert.Equal(t, http.StatusOK, w.Code)
		var out orderapp.OrderResponse
		decodeData(t, resp, &out)
		assert.Equal(t, "confirmed", out.Status)
	})

	t.Run("illegal transition", func(t *testing.T) {
		svc := new(MockOrderService)
		router := newOrderRouter(svc, storeID)
		svc.On("UpdateStatus", mock.Anything, storeID, orderID, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_STATE", "Cannot move order from delivered to pending"))

		w, resp := doJSON(t, router, http.MethodPatch, path, map[string]string{"status": "pending"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := new(MockOrderService)
		router := newOrderRouter(svc, storeID)

		w, _ := doJSON(t, router, http.MethodPatch, path, map[string]string{"status": "returned"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, svc.Calls)
	})
}

func TestOrderHandler_Invoice(t *testing.T) {
	storeID, orderID := uuid.New(), uuid.New()
	path := "/stores/" + storeID.String() + "/orders/" + orderID.String() + "/invoice"

	tests := []struct {
		name        string
		contentType string
		ext         string
	}{
		{"pdf", "application/pdf", ".pdf"},
		{"html fallback", "text/html; charset=utf-8", ".html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockOrderService)
			router := newOrderRouter(svc, storeID)
			svc.On("Invoice", mock.Anything, storeID, orderID).Return([]byte("%PDF-1.4"), tt.contentType, nil)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), "invoice-"+orderID.String()[:8])
			assert.Contains(t, w.Header().Get("Content-Disposition"), tt.ext+`"`)
			assert.Equal(t, "%PDF-1.4", w.Body.String())
		})
	}

	t.Run("other store's order", func(t *testing.T) {
		svc := new(MockOrderService)
		router := newOrderRouter(svc, storeID)
		svc.On("Invoice", mock.Anything, storeID, orderID).Return(nil, "", shared.ErrNotFound)

		w, _ := doJSON(t, router, http.MethodGet, path, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_Export(t *testing.T) {
	storeID := uuid.New()
	svc := new(MockOrderService)
	router := newOrderRouter(svc, storeID)
	csv := "order_number,status\nORD-20260115-3F9A2C,delivered\n"
	svc.On("ExportOrders", mock.Anything, storeID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["status"] == "delivered"
	})).Return(csv, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stores/"+storeID.String()+"/orders/export?status=delivered", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="orders-`)
	assert.Equal(t, csv, w.Body.String())
}

func TestOrderHandler_ListCustomers(t *testing.T) {
	storeID := uuid.New()
	svc := new(MockOrderService)
	router := newOrderRouter(svc, storeID)
	page := shared.NewPaginated([]orderapp.CustomerResponse{{Name: "Ravi", Phone: "9876543210", TotalOrders: 3}}, 1, 1, 10)
	svc.On("ListCustomers", mock.Anything, storeID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "ravi" && f.PageSize == 10
	})).Return(&page, nil)

	w, resp := doJSON(t, router, http.MethodGet, "/stores/"+storeID.String()+"/customers?search=ravi&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var out []orderapp.CustomerResponse
	decodeData(t, resp, &out)
	require.Len(t, out, 1)
	assert.Equal(t, 3, out[0].TotalOrders)
}
