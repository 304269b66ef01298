package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/darkstore_ledger/internal/utils"
)

// analyticsSkipPaths are infrastructure endpoints that never produce analytics events.
var analyticsSkipPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// PosthogMiddleware reports console usage of the ledger API to PostHog.
// Successful calls and rejected postings (422) are tracked; other failures are left to the logs.
func PosthogMiddleware(posthogClient *utils.PosthogClientWrapper) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !posthogClient.IsInitialized() || analyticsSkipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		outcome := "ok"
		switch {
		case status == http.StatusUnprocessableEntity:
			outcome = "rejected"
		case status >= http.StatusBadRequest:
			return
		}

		eventName := analyticsEventName(c.Request.Method, c.FullPath())
		if eventName == "" {
			return
		}

		actor, ok := GetUserIDFromContext(c)
		if !ok {
			actor = "anonymous"
		}

		props := map[string]any{
			"method":              c.Request.Method,
			"route":               c.FullPath(),
			"status_code":         status,
			"outcome":             outcome,
			"latency_ms":          time.Since(start).Milliseconds(),
			"request_id":          GetRequestIDFromCtx(c.Request.Context()),
			"idempotent_replay":   c.Writer.Header().Get("X-Idempotent-Replayed") == "true",
			"has_idempotency_key": GetIdempotencyKey(c.Request.Context()) != "",
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		posthogClient.Enqueue(actor, eventName, props)
	}
}

// analyticsEventName turns a route into a stable event name, e.g.
// POST /api/v1/journal-entries/:id/reversal -> "post_journal-entries_id_reversal".
func analyticsEventName(method, fullPath string) string {
	path := strings.TrimPrefix(fullPath, "/api/v1")
	var parts []string
	for _, segment := range strings.Split(path, "/") {
		segment = strings.TrimLeft(segment, ":*")
		if segment != "" {
			parts = append(parts, segment)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.ToLower(method) + "_" + strings.Join(parts, "_")
}
