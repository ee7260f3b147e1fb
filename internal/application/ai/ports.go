// Package ai holds the AI-assisted catalog use cases: detecting products in
// photos and generating artwork for categories.
package ai

import (
	"context"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// DetectedProduct is what the vision model extracted from one image
type DetectedProduct struct {
	Name        string
	Price       decimal.Decimal
	Category    string
	Description string
	Brand       string
	Confidence  float64
}

// ProductDetector extracts a product from a single image (data URL or https URL).
// Implementations map upstream 402/429 to shared.ErrPaymentRequired/ErrRateLimited.
type ProductDetector interface {
	DetectProduct(ctx context.Context, imageURL string) (*DetectedProduct, error)
}

// GeneratedImage is raw image bytes from the image model
type GeneratedImage struct {
	Data        []byte
	ContentType string
}

// ImageGenerator renders an image from a prompt
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// CategoryImageCache is the fast lookup in front of the category_images table.
// Get returns nil, nil on a miss.
type CategoryImageCache interface {
	Get(ctx context.Context, key string) (*catalog.CategoryImage, error)
	Set(ctx context.Context, img *catalog.CategoryImage) error
}
