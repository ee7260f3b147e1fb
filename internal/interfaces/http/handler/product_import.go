package handler

import (
	"net/http"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	"github.com/bizgrow/backend/internal/infrastructure/logger"
	"github.com/bizgrow/backend/internal/interfaces/http/dto"
	"github.com/bizgrow/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MaxImportFileSize caps an uploaded product CSV
const MaxImportFileSize = 10 << 20

// ProductImportHandler moves a catalog in and out as CSV
type ProductImportHandler struct {
	BaseHandler
	transfer ProductTransfer
}

// NewProductImportHandler creates a new ProductImportHandler
func NewProductImportHandler(transfer ProductTransfer) *ProductImportHandler {
	return &ProductImportHandler{transfer: transfer}
}

// Import godoc
// @ID           importProducts
// @Summary      Import products from CSV
// @Description  Rows are matched to existing products by name. conflict_mode decides what happens to a match: skip leaves it, update overwrites it, fail aborts the whole import.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        store_id path string true "Store ID" format(uuid)
// @Param        file formData file true "CSV file"
// @Param        conflict_mode formData string false "What to do with existing products" Enums(skip, update, fail) default(skip)
// @Success      200 {object} APIResponse[catalogapp.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/import [post]
func (h *ProductImportHandler) Import(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	var form dto.ProductImportRequest
	if err := c.ShouldBind(&form); err != nil {
		h.BindingError(c, err)
		return
	}
	mode := catalogapp.ConflictMode(form.Mode())
	if !mode.IsValid() {
		h.BadRequest(c, "conflict_mode must be skip, update or fail")
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidationRequired, "file is required")
		return
	}
	if header.Size > MaxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, middleware.ErrCodeRequestTooLarge, "File exceeds the 10 MB limit")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "Could not read the uploaded file")
		return
	}
	defer file.Close()

	result, err := h.transfer.ImportProducts(c.Request.Context(), storeID, file, mode)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Product import finished",
		zap.String("file", header.Filename),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("error_rows", result.ErrorRows))

	h.Success(c, result)
}

// Export godoc
// @ID           exportProducts
// @Summary      Export products as CSV
// @Description  The file uses the same columns the import accepts
// @Tags         products
// @Produce      text/csv
// @Param        store_id path string true "Store ID" format(uuid)
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /stores/{store_id}/products/export [get]
func (h *ProductImportHandler) Export(c *gin.Context) {
	storeID, ok := h.currentStore(c)
	if !ok {
		return
	}

	setAttachment(c, "products", "csv", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.transfer.ExportProducts(c.Request.Context(), storeID, c.Writer); err != nil {
		// Headers may already be on the wire; only log.
		logger.GetGinLogger(c).Error("Product export failed", zap.Error(err))
	}
}
