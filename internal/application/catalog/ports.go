package catalog

import (
	"context"
	"time"
)

// ObjectStorage stores product images and category artwork (S3 compatible)
type ObjectStorage interface {
	// Upload stores data under key
	Upload(ctx context.Context, key string, data []byte, contentType string) error

	// PublicURL returns the URL browsers use to fetch key
	PublicURL(key string) string

	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)

	DeleteObject(ctx context.Context, key string) error
}
