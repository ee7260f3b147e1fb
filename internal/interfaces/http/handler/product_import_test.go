package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	csvimport "github.com/bizgrow/backend/internal/infrastructure/import"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "name,price,category,stock\nToor Dal 1kg,149.50,Groceries,20\nAmul Butter,56,Dairy,x\n"

func newImportRouter(svc *MockProductTransfer, storeID uuid.UUID) *gin.Engine {
	h := NewProductImportHandler(svc)
	router := gin.New()
	g := router.Group("/stores/:store_id/products", inStore(storeID))
	g.POST("/import", h.Import)
	g.GET("/export", h.Export)
	return router
}

func multipartRequest(t *testing.T, path string, fields map[string]string, file string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != "" {
		part, err := mw.CreateFormFile("file", "products.csv")
		require.NoError(t, err)
		_, err = part.Write([]byte(file))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serveImport(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestProductImportHandler_Import(t *testing.T) {
	storeID := uuid.New()
	path := "/stores/" + storeID.String() + "/products/import"

	t.Run("defaults to skip", func(t *testing.T) {
		svc := new(MockProductTransfer)
		router := newImportRouter(svc, storeID)
		svc.On("ImportProducts", mock.Anything, storeID, sampleCSV, catalogapp.ConflictModeSkip).Return(&catalogapp.ImportResult{
			TotalRows: 2,
			Imported:  1,
			ErrorRows: 1,
			Errors:    []csvimport.RowError{{Row: 3, Column: "stock", Code: "ERR_INVALID_NUMBER", Message: "stock must be a number"}},
		}, nil)

		w, resp := serveImport(t, router, multipartRequest(t, path, nil, sampleCSV))

		assert.Equal(t, http.StatusOK, w.Code)
		var out catalogapp.ImportResult
		decodeData(t, resp, &out)
		assert.Equal(t, 2, out.TotalRows)
		assert.Equal(t, 1, out.Imported)
		require.Len(t, out.Errors, 1)
		assert.Equal(t, 3, out.Errors[0].Row)
		svc.AssertExpectations(t)
	})

	t.Run("fail mode aborts with conflict", func(t *testing.T) {
		svc := new(MockProductTransfer)
		router := newImportRouter(svc, storeID)
		svc.On("ImportProducts", mock.Anything, storeID, sampleCSV, catalogapp.ConflictModeFail).
			Return(nil, shared.NewDomainError("ALREADY_EXISTS", "Toor Dal 1kg already exists"))

		w, resp := serveImport(t, router, multipartRequest(t, path, map[string]string{"conflict_mode": "fail"}, sampleCSV))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, resp.Error.Code)
	})

	t.Run("unknown conflict mode", func(t *testing.T) {
		svc := new(MockProductTransfer)
		router := newImportRouter(svc, storeID)

		w, resp := serveImport(t, router, multipartRequest(t, path, map[string]string{"conflict_mode": "merge"}, sampleCSV))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		svc.AssertNotCalled(t, "ImportProducts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing file", func(t *testing.T) {
		router := newImportRouter(new(MockProductTransfer), storeID)

		w, resp := serveImport(t, router, multipartRequest(t, path, map[string]string{"conflict_mode": "update"}, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidationRequired, resp.Error.Code)
	})
}

func TestProductImportHandler_Export(t *testing.T) {
	storeID := uuid.New()
	svc := new(MockProductTransfer)
	router := newImportRouter(svc, storeID)
	svc.On("ExportProducts", mock.Anything, storeID).Return(sampleCSV, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stores/"+storeID.String()+"/products/export", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="products-`))
	assert.Equal(t, sampleCSV, w.Body.String())
}
