package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	aiapp "github.com/bizgrow/backend/internal/application/ai"
	"github.com/bizgrow/backend/internal/domain/shared"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExtractProductTool is the function the vision model must call
const ExtractProductTool = "extract_product"

const detectionPrompt = "You are a retail catalog assistant for small Indian shops. " +
	"Identify the single main product in the image and call extract_product. " +
	"Prices are in Indian Rupees; use 0 when no price is visible. " +
	"Use a short, generic category such as Groceries, Snacks, Beverages, Personal Care, Household, Electronics or Clothing."

var extractProductParams = jsonschema.Definition{
	Type: jsonschema.Object,
	Properties: map[string]jsonschema.Definition{
		"name":        {Type: jsonschema.String, Description: "Product name as a shopper would search for it"},
		"price":       {Type: jsonschema.Number, Description: "Selling price in INR, 0 if unknown"},
		"category":    {Type: jsonschema.String, Description: "Product category"},
		"description": {Type: jsonschema.String, Description: "One or two sentence description"},
		"brand":       {Type: jsonschema.String, Description: "Brand name, empty if unbranded"},
		"confidence":  {Type: jsonschema.Number, Description: "Confidence between 0 and 1"},
	},
	Required: []string{"name", "price", "category", "description", "brand", "confidence"},
}

type extractProductArgs struct {
	Name        string      `json:"name"`
	Price       json.Number `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Brand       string      `json:"brand"`
	Confidence  float64     `json:"confidence"`
}

// VisionDetector implements aiapp.ProductDetector with a multimodal chat model
type VisionDetector struct {
	client *openai.Client
	model  string
	settings
}

var _ aiapp.ProductDetector = (*VisionDetector)(nil)

// NewVisionDetector creates a detector using model
func NewVisionDetector(client *openai.Client, model string, opts ...Option) *VisionDetector {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &VisionDetector{client: client, model: model, settings: newSettings(opts)}
}

// DetectProduct sends one image and parses the forced extract_product call
func (d *VisionDetector) DetectProduct(ctx context.Context, imageURL string) (product *aiapp.DetectedProduct, err error) {
	start := time.Now()
	defer func() { d.metrics.observe("product_detection", start, err) }()

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: detectionPrompt},
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: "Extract the product details from this photo."},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: imageURL, Detail: openai.ImageURLDetailAuto}},
				},
			},
		},
		Tools: []openai.Tool{{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        ExtractProductTool,
				Description: "Record the product visible in the image",
				Parameters:  extractProductParams,
			},
		}},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: ExtractProductTool},
		},
		Temperature: 0.1,
	})
	if err != nil {
		d.logger.Warn("vision request failed", zap.Int("status", StatusCode(err)), zap.Error(err))
		return nil, MapError(err)
	}

	return parseDetection(resp)
}

func parseDetection(resp openai.ChatCompletionResponse) (*aiapp.DetectedProduct, error) {
	if len(resp.Choices) == 0 {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI response had no choices", errors.New("empty choices"))
	}

	var raw string
	for _, call := range resp.Choices[0].Message.ToolCalls {
		if call.Function.Name == ExtractProductTool {
			raw = call.Function.Arguments
			break
		}
	}
	if raw == "" {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI response did not call extract_product", errors.New("missing tool call"))
	}

	var args extractProductArgs
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI returned malformed product data", err)
	}
	if strings.TrimSpace(args.Name) == "" {
		return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI could not identify a product", errors.New("empty name"))
	}

	price := decimal.Zero
	if args.Price != "" {
		p, err := decimal.NewFromString(args.Price.String())
		if err != nil {
			return nil, shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI returned an invalid price", fmt.Errorf("price %q: %w", args.Price, err))
		}
		if p.IsPositive() {
			price = p.Round(2)
		}
	}

	return &aiapp.DetectedProduct{
		Name:        strings.TrimSpace(args.Name),
		Price:       price,
		Category:    strings.TrimSpace(args.Category),
		Description: strings.TrimSpace(args.Description),
		Brand:       strings.TrimSpace(args.Brand),
		Confidence:  math.Max(0, math.Min(1, args.Confidence)),
	}, nil
}
