package catalog

import (
	"strings"
	"unicode"

	"github.com/bizgrow/backend/internal/domain/shared"
)

// CategoryImage maps a category name to a generated illustration kept in object storage.
// Mappings are global so every store reuses the same artwork for "Groceries".
type CategoryImage struct {
	shared.BaseEntity
	CategoryKey  string
	CategoryName string
	ImageURL     string
	ObjectKey    string
}

// NewCategoryImage creates a mapping for a freshly generated image
func NewCategoryImage(categoryName, imageURL, objectKey string) (*CategoryImage, error) {
	key := CategoryKey(categoryName)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category name is required")
	}
	if imageURL == "" {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "Image URL is required")
	}
	return &CategoryImage{
		BaseEntity:   shared.NewBaseEntity(),
		CategoryKey:  key,
		CategoryName: NormalizeCategory(categoryName),
		ImageURL:     imageURL,
		ObjectKey:    objectKey,
	}, nil
}

// CategoryKey is the cache key for a category: lowercase, alphanumerics joined by dashes.
// "Home & Kitchen" and "home  kitchen" share a key.
func CategoryKey(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, "-")
}
