package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is the type of every value this package stores in a context.
// Using a custom type prevents collisions.
type contextKey string

const (
	// userIDKey is the key used to store the authenticated actor's ID.
	userIDKey = contextKey("userID")
	// loggerCtxKey is the key used to store the request-scoped logger in the request context.
	loggerCtxKey = contextKey("logger")
	// requestIDKey is the key used to store the request ID.
	requestIDKey = contextKey("requestID")
	// idempotencyKeyCtxKey is the key used to store a validated Idempotency-Key header.
	idempotencyKeyCtxKey = contextKey("idempotencyKey")
)

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}

// WithUserID returns a copy of ctx carrying the actor id.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetRequestIDFromCtx returns the request ID set by StructuredLoggingMiddleware, if any.
func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
