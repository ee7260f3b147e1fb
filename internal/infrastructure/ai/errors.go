package ai

import (
	"context"
	"errors"
	"net/http"

	"github.com/bizgrow/backend/internal/domain/shared"
	openai "github.com/sashabaranov/go-openai"
)

// MapError translates gateway failures into domain errors.
// 402 means the account ran out of credits, 429 that it is throttled.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	switch StatusCode(err) {
	case http.StatusPaymentRequired:
		return shared.WrapDomainError(shared.ErrPaymentRequired.Code, shared.ErrPaymentRequired.Message, err)
	case http.StatusTooManyRequests:
		return shared.WrapDomainError(shared.ErrRateLimited.Code, shared.ErrRateLimited.Message, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if _, ok := shared.AsDomainError(err); ok {
		return err
	}
	return shared.WrapDomainError(shared.ErrUpstreamFailure.Code, "AI gateway request failed", err)
}

// StatusCode extracts the upstream HTTP status from a go-openai error, or 0
func StatusCode(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, shared.ErrPaymentRequired):
		return "payment_required"
	case errors.Is(err, shared.ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
