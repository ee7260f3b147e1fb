package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestRateLimiter(t *testing.T) {
	t.Run("burst then block", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(60, time.Minute, 3)
		limiter.now = fixedClock(&now)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("a"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("a"))
		assert.Equal(t, time.Second, limiter.RetryAfter("a"))
	})

	t.Run("refills over time", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(60, time.Minute, 1)
		limiter.now = fixedClock(&now)

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))

		now = now.Add(time.Second)
		assert.True(t, limiter.Allow("a"))
	})

	t.Run("separate buckets per key", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Hour, 1)

		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("burst defaults to requests", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Hour, 0)

		assert.Equal(t, 5, limiter.Remaining("fresh"))
	})

	t.Run("evicts idle clients", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		limiter := NewRateLimiter(10, time.Minute, 10)
		limiter.now = fixedClock(&now)

		limiter.Allow("a")
		now = now.Add(3 * time.Minute)
		limiter.evictIdle()

		assert.Empty(t, limiter.clients)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := NewRateLimiter(2, time.Hour, 2)

	router := gin.New()
	router.Use(RateLimit(limiter))
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, w.Header().Get("Retry-After"))
			assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")
		} else {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
