package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	catalogapp "github.com/bizgrow/backend/internal/application/catalog"
	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	categoryImagePrefix = "category-images/"

	// bounds a shared generation once it no longer follows any one request
	categoryGenerationTimeout = 2 * time.Minute
)

// ErrStorageFailure is returned when generated artwork cannot be stored
var ErrStorageFailure = shared.NewDomainError("STORAGE_FAILURE", "Failed to store the generated image")

// CategoryImageRequest is the body of the category image endpoint
type CategoryImageRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
}

// CategoryImageResponse is the image for a category
type CategoryImageResponse struct {
	CategoryName string `json:"category_name"`
	ImageURL     string `json:"image_url"`
	Cached       bool   `json:"cached"`
}

// CategoryImageService returns artwork for a category, generating it once and reusing it after
type CategoryImageService struct {
	repo      catalog.CategoryImageRepository
	cache     CategoryImageCache
	generator ImageGenerator
	storage   catalogapp.ObjectStorage
	inflight  singleflight.Group
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCategoryImageService creates a new CategoryImageService. cache may be nil.
func NewCategoryImageService(
	repo catalog.CategoryImageRepository,
	cache CategoryImageCache,
	generator ImageGenerator,
	storage catalogapp.ObjectStorage,
	logger *zap.Logger,
) *CategoryImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryImageService{
		repo:      repo,
		cache:     cache,
		generator: generator,
		storage:   storage,
		timeout:   categoryGenerationTimeout,
		logger:    logger,
	}
}

// GetOrGenerate looks the category up in the cache, then the table, and only then
// asks the image model. Concurrent requests for one category share a generation.
func (s *CategoryImageService) GetOrGenerate(ctx context.Context, req CategoryImageRequest) (*CategoryImageResponse, error) {
	key := catalog.CategoryKey(req.CategoryName)
	if key == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Category name is required")
	}

	if img := s.lookup(ctx, key); img != nil {
		return toCategoryImageResponse(img, true), nil
	}

	// The generation runs detached from the caller that started it, so one
	// client hanging up does not fail everyone waiting on the same category.
	ch := s.inflight.DoChan(key, func() (any, error) {
		gctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		if img := s.lookup(gctx, key); img != nil {
			return toCategoryImageResponse(img, true), nil
		}
		img, err := s.generate(gctx, key, req.CategoryName)
		if err != nil {
			return nil, err
		}
		return toCategoryImageResponse(img, false), nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*CategoryImageResponse), nil
	}
}

// lookup returns the stored mapping or nil. Cache and table errors are logged and treated as a miss.
func (s *CategoryImageService) lookup(ctx context.Context, key string) *catalog.CategoryImage {
	if s.cache != nil {
		img, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("category image cache read failed", zap.String("key", key), zap.Error(err))
		} else if img != nil {
			return img
		}
	}

	img, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("category image lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	s.remember(ctx, img)
	return img
}

func (s *CategoryImageService) generate(ctx context.Context, key, name string) (*catalog.CategoryImage, error) {
	generated, err := s.generator.GenerateImage(ctx, categoryPrompt(catalog.NormalizeCategory(name)))
	if err != nil {
		return nil, err
	}

	objectKey := fmt.Sprintf("%s%s-%s%s", categoryImagePrefix, key, uuid.NewString()[:8], extensionFor(generated.ContentType))
	if err := s.storage.Upload(ctx, objectKey, generated.Data, generated.ContentType); err != nil {
		return nil, shared.WrapDomainError(ErrStorageFailure.Code, ErrStorageFailure.Message, err)
	}

	img, err := catalog.NewCategoryImage(name, s.storage.PublicURL(objectKey), objectKey)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, img); err != nil {
		if delErr := s.storage.DeleteObject(ctx, objectKey); delErr != nil {
			s.logger.Warn("failed to remove orphaned category image",
				zap.String("object_key", objectKey),
				zap.Error(delErr))
		}
		return nil, shared.WrapDomainError(shared.ErrPersistenceWrite.Code, "Failed to save category image", err)
	}
	s.remember(ctx, img)

	s.logger.Info("category image generated",
		zap.String("category", img.CategoryName),
		zap.String("object_key", objectKey))
	return img, nil
}

func (s *CategoryImageService) remember(ctx context.Context, img *catalog.CategoryImage) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, img); err != nil {
		s.logger.Warn("category image cache write failed", zap.String("key", img.CategoryKey), zap.Error(err))
	}
}

func toCategoryImageResponse(img *catalog.CategoryImage, cached bool) *CategoryImageResponse {
	return &CategoryImageResponse{
		CategoryName: img.CategoryName,
		ImageURL:     img.ImageURL,
		Cached:       cached,
	}
}

func categoryPrompt(category string) string {
	return fmt.Sprintf("A clean, bright flat illustration representing the retail product category %q "+
		"for an Indian neighbourhood store. Centered composition, soft background, no text or logos.", category)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
