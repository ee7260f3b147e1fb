package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	aiapp "github.com/bizgrow/backend/internal/application/ai"
	"github.com/bizgrow/backend/internal/domain/shared"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIImageGenerator implements aiapp.ImageGenerator with the images endpoint
type OpenAIImageGenerator struct {
	client *openai.Client
	model  string
	size   string
	settings
}

var _ aiapp.ImageGenerator = (*OpenAIImageGenerator)(nil)

// NewImageGenerator creates a generator for model at size (e.g. "1024x1024")
func NewImageGenerator(client *openai.Client, model, size string, opts ...Option) *OpenAIImageGenerator {
	if model == "" {
		model = openai.CreateImageModelDallE3
	}
	if size == "" {
		size = openai.CreateImageSize1024x1024
	}
	return &OpenAIImageGenerator{client: client, model: model, size: size, settings: newSettings(opts)}
}

// GenerateImage requests a single base64 image and decodes it
func (g *OpenAIImageGenerator) GenerateImage(ctx context.Context, prompt string) (img *aiapp.GeneratedImage, err error) {
	start := time.Now()
	defer func() { g.metrics.observe("image_generation", start, err) }()

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		N:              1,
		Size:           g.size,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		g.logger.Warn("image request failed", zap.Int("status", StatusCode(err)), zap.Error(err))
		return nil, MapError(err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI returned no image", errors.New("empty image data"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI returned an undecodable image", err)
	}

	return &aiapp.GeneratedImage{
		Data:        data,
		ContentType: http.DetectContentType(data),
	}, nil
}
