package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxDetectionImages caps images per detection request
	MaxDetectionImages = 10

	defaultDetectionConcurrency = 3
)

// ErrDetectionFailed is returned when no image could be processed
var ErrDetectionFailed = shared.NewDomainError("DETECTION_FAILED", "Could not detect a product in any of the images")

// DetectProductsRequest is the body of the product detection endpoint
type DetectProductsRequest struct {
	Images []string `json:"images" binding:"required"`
}

// DetectedProductResponse is one detected product. Image is the index of the source image.
type DetectedProductResponse struct {
	Image       int             `json:"image"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Brand       string          `json:"brand"`
	Confidence  float64         `json:"confidence"`
}

// DetectProductsResponse lists detections in image order
type DetectProductsResponse struct {
	Products []DetectedProductResponse `json:"products"`
	Failed   []int                     `json:"failed,omitempty"`
}

// DetectionService turns shelf photos into draft catalog entries
type DetectionService struct {
	detector    ProductDetector
	concurrency int
	logger      *zap.Logger
}

// DetectionOption configures a DetectionService
type DetectionOption func(*DetectionService)

// WithDetectionConcurrency bounds the number of images sent upstream at once
func WithDetectionConcurrency(n int) DetectionOption {
	return func(s *DetectionService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithDetectionLogger sets the logger
func WithDetectionLogger(logger *zap.Logger) DetectionOption {
	return func(s *DetectionService) {
		s.logger = logger
	}
}

// NewDetectionService creates a new DetectionService
func NewDetectionService(detector ProductDetector, opts ...DetectionOption) *DetectionService {
	s := &DetectionService{
		detector:    detector,
		concurrency: defaultDetectionConcurrency,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Detect runs detection on every image. Failed images are skipped; a 402 or 429
// from upstream aborts the whole request since the remaining calls would fail too.
func (s *DetectionService) Detect(ctx context.Context, req DetectProductsRequest) (*DetectProductsResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ai", "detect_products",
		telemetry.SpanAttrRows, len(req.Images),
	)
	resp, err := s.detect(ctx, req)
	if resp != nil {
		telemetry.SetAttributes(span, "detected", len(resp.Products), "failed", len(resp.Failed))
	}
	telemetry.EndSpan(span, err)
	return resp, err
}

func (s *DetectionService) detect(ctx context.Context, req DetectProductsRequest) (*DetectProductsResponse, error) {
	if err := validateImages(req.Images); err != nil {
		return nil, err
	}

	results := make([]*DetectedProduct, len(req.Images))
	failures := make([]error, len(req.Images))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, image := range req.Images {
		g.Go(func() error {
			product, err := s.detector.DetectProduct(gctx, image)
			if err != nil {
				if isQuotaError(err) {
					return err
				}
				s.logger.Warn("skipping image after detection failure",
					zap.Int("image", i),
					zap.Error(err))
				failures[i] = err
				return nil
			}
			results[i] = product
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &DetectProductsResponse{Products: make([]DetectedProductResponse, 0, len(results))}
	for i, p := range results {
		if p == nil {
			resp.Failed = append(resp.Failed, i)
			continue
		}
		resp.Products = append(resp.Products, DetectedProductResponse{
			Image:       i,
			Name:        p.Name,
			Price:       p.Price,
			Category:    p.Category,
			Description: p.Description,
			Brand:       p.Brand,
			Confidence:  p.Confidence,
		})
	}
	if len(resp.Products) == 0 {
		return nil, shared.WrapDomainError(ErrDetectionFailed.Code, ErrDetectionFailed.Message, errors.Join(failures...))
	}

	s.logger.Info("product detection finished",
		zap.Int("images", len(req.Images)),
		zap.Int("detected", len(resp.Products)))
	return resp, nil
}

func validateImages(images []string) error {
	if len(images) == 0 {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "At least one image is required")
	}
	if len(images) > MaxDetectionImages {
		return shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("At most %d images can be analysed per request", MaxDetectionImages))
	}
	for i, image := range images {
		if !strings.HasPrefix(image, "data:image/") && !strings.HasPrefix(image, "https://") {
			return shared.NewDomainError(shared.ErrInvalidInput.Code,
				fmt.Sprintf("Image %d must be a data URL or an https URL", i))
		}
	}
	return nil
}

func isQuotaError(err error) bool {
	return errors.Is(err, shared.ErrPaymentRequired) || errors.Is(err, shared.ErrRateLimited)
}
