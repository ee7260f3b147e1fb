package ai

import (
	"context"
	"errors"
	"time"

	"github.com/bizgrow/backend/internal/domain/shared"
	"golang.org/x/time/rate"
)

// Limiter is a token bucket shared by every AI call from this instance,
// keeping the gateway under its requests-per-minute quota.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter allows perMinute requests per minute with the given burst.
// A non-positive perMinute disables limiting.
func NewLimiter(perMinute, burst int) *Limiter {
	if perMinute <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)}
}

// Wait blocks until a token is available. When the context deadline would
// expire first the call fails fast with shared.ErrRateLimited.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return shared.WrapDomainError(shared.ErrRateLimited.Code, "AI request quota exhausted for this instance, please retry shortly", err)
	}
	return nil
}
