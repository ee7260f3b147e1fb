package handler

import (
	aiapp "github.com/bizgrow/backend/internal/application/ai"
	"github.com/gin-gonic/gin"
)

// AIHandler exposes product detection from photos and category artwork
type AIHandler struct {
	BaseHandler
	detector ProductDetector
	images   CategoryImageProvider
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(detector ProductDetector, images CategoryImageProvider) *AIHandler {
	return &AIHandler{detector: detector, images: images}
}

// DetectProducts godoc
// @ID           detectProducts
// @Summary      Detect products in photos
// @Description  Each image is a data URL or base64 JPEG/PNG. Images that cannot be read are listed in failed; the request fails only when none could.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body aiapp.DetectProductsRequest true "Images"
// @Success      200 {object} APIResponse[aiapp.DetectProductsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse "AI credits exhausted"
// @Failure      429 {object} ErrorResponse "AI rate limit reached"
// @Failure      502 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse "AI features disabled"
// @Security     BearerAuth
// @Router       /ai/product-detection [post]
func (h *AIHandler) DetectProducts(c *gin.Context) {
	var req aiapp.DetectProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.detector.Detect(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// CategoryImage godoc
// @ID           getCategoryImage
// @Summary      Artwork for a category
// @Description  Returns the stored image for the category, generating and storing one on first request
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request body aiapp.CategoryImageRequest true "Category"
// @Success      200 {object} APIResponse[aiapp.CategoryImageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      402 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /ai/category-image [post]
func (h *AIHandler) CategoryImage(c *gin.Context) {
	var req aiapp.CategoryImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.images.GetOrGenerate(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
