package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"github.com/bizgrow/backend/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, handler http.HandlerFunc) config.AIConfig {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return config.AIConfig{APIKey: "test-key", BaseURL: srv.URL + "/v1", RequestTimeout: 5 * time.Second}
}

func toolCallResponse(args string) string {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "tool_calls",
			"message": map[string]any{
				"role": "assistant",
				"tool_calls": []map[string]any{{
					"id":   "call_1",
					"type": "function",
					"function": map[string]any{
						"name":      ExtractProductTool,
						"arguments": args,
					},
				}},
			},
		}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, `{"error":{"message":"`+message+`","type":"error"}}`)
}

func TestVisionDetector_DetectProduct(t *testing.T) {
	var captured map[string]any
	cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&captured)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, toolCallResponse(`{"name":" Parle-G Biscuits ","price":10,"category":"Snacks","description":"Glucose biscuits","brand":"Parle","confidence":1.4}`))
	})

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	d := NewVisionDetector(NewOpenAIClient(cfg), "", WithMetrics(metrics), WithLimiter(NewLimiter(0, 0)))

	got, err := d.DetectProduct(context.Background(), "https://img.example.com/parle.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Parle-G Biscuits", got.Name)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Price))
	assert.Equal(t, "Snacks", got.Category)
	assert.Equal(t, "Parle", got.Brand)
	assert.Equal(t, 1.0, got.Confidence)

	toolChoice := captured["tool_choice"].(map[string]any)
	assert.Equal(t, ExtractProductTool, toolChoice["function"].(map[string]any)["name"])
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("product_detection", "success")))
}

func TestVisionDetector_UpstreamStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   *shared.DomainError
	}{
		{"credits exhausted", http.StatusPaymentRequired, shared.ErrPaymentRequired},
		{"throttled", http.StatusTooManyRequests, shared.ErrRateLimited},
		{"server error", http.StatusInternalServerError, shared.ErrUpstreamFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				writeError(w, tt.status, "upstream says no")
			})
			d := NewVisionDetector(NewOpenAIClient(cfg), "gpt-4o-mini")

			_, err := d.DetectProduct(context.Background(), "data:image/png;base64,AAAA")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestVisionDetector_MissingToolCall(t *testing.T) {
	cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"I see a biscuit"}}]}`)
	})
	d := NewVisionDetector(NewOpenAIClient(cfg), "")

	_, err := d.DetectProduct(context.Background(), "https://img.example.com/a.jpg")
	assert.ErrorIs(t, err, shared.ErrUpstreamFailure)
}

func TestParseDetection_PriceAsString(t *testing.T) {
	cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, toolCallResponse(`{"name":"Amul Butter","price":"56.50","category":"Dairy","description":"","brand":"Amul","confidence":0.8}`))
	})
	d := NewVisionDetector(NewOpenAIClient(cfg), "")

	got, err := d.DetectProduct(context.Background(), "https://img.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "56.5", got.Price.String())
}

func TestImageGenerator_GenerateImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfakeimagedata")
	cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/images/generations", r.URL.Path)
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "b64_json", body["response_format"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"created":1700000000,"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(png)+`"}]}`)
	})

	g := NewImageGenerator(NewOpenAIClient(cfg), "", "")
	img, err := g.GenerateImage(context.Background(), "Flat illustration of groceries")
	require.NoError(t, err)
	assert.Equal(t, png, img.Data)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestImageGenerator_PaymentRequired(t *testing.T) {
	cfg := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusPaymentRequired, "Not enough credits")
	})
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	_, err := NewImageGenerator(NewOpenAIClient(cfg), "", "", WithMetrics(metrics)).GenerateImage(context.Background(), "x")
	assert.ErrorIs(t, err, shared.ErrPaymentRequired)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("image_generation", "payment_required")))
}

func TestLimiter_FailsFastPastDeadline(t *testing.T) {
	l := NewLimiter(1, 1)
	require.NoError(t, l.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := l.Wait(ctx)
	assert.ErrorIs(t, err, shared.ErrRateLimited)
}

func TestMapError_PassesThroughDomainErrors(t *testing.T) {
	assert.Nil(t, MapError(nil))
	assert.ErrorIs(t, MapError(shared.ErrRateLimited), shared.ErrRateLimited)
	assert.ErrorIs(t, MapError(context.Canceled), context.Canceled)
}
