package middleware

import (
	"context"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
)

// IdempotencyKeyHeader is the request header carrying a client-chosen posting key.
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLen = 255

// IdempotencyKey validates an optional Idempotency-Key header and exposes it to
// handlers through GetIdempotencyKey. Requests without the header pass through.
func IdempotencyKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" {
			c.Next()
			return
		}

		if len(key) > maxIdempotencyKeyLen || strings.IndexFunc(key, func(r rune) bool { return !unicode.IsPrint(r) }) >= 0 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Rejected malformed idempotency key")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Idempotency-Key must be at most 255 printable characters"})
			return
		}

		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), idempotencyKeyCtxKey, key))
		c.Next()
	}
}

// GetIdempotencyKey returns the validated Idempotency-Key of the request, or "".
func GetIdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKeyCtxKey).(string)
	return key
}
