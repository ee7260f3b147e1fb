package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	labels := map[string]string{}
	capture := func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		c.Status(http.StatusOK)
	}

	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))
	router.GET("/api/v1/stores/:store_id/orders", capture)
	router.GET("/health", capture)

	t.Run("labels store routes", func(t *testing.T) {
		clear(labels)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stores/42/orders", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/api/v1/stores/:store_id/orders", labels["route"])
		assert.Equal(t, "GET", labels["method"])
		assert.Equal(t, "42", labels["store_id"])
	})

	t.Run("skips health", func(t *testing.T) {
		clear(labels)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, labels)
	})
}
