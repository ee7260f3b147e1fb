package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader deduplicates storefront checkouts
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// idempotencyKey returns the trimmed Idempotency-Key header, empty when absent or oversized
func idempotencyKey(c *gin.Context) string {
	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		return ""
	}
	return key
}

// setAttachment marks the response as a download named prefix-YYYYMMDD.ext
func setAttachment(c *gin.Context, prefix, ext, contentType string) {
	name := fmt.Sprintf("%s-%s.%s", prefix, time.Now().Format("20060102"), ext)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
}

// limitQuery reads ?limit= clamped to [1, max], def when absent or malformed
func limitQuery(c *gin.Context, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, max)
}
