package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/respond"
	"finance-backend/internal/shared/telemetry"
)

// Recovery recovers from panics, reports them to Sentry when a client is bound,
// and returns a standardized error response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				reqID := RequestIDFromContext(c)
				telemetry.Error("panic", map[string]any{
					"request_id": reqID,
					"error":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
				})
				if hub := sentry.CurrentHub(); hub.Client() != nil {
					hub = hub.Clone()
					hub.Scope().SetTag("request_id", reqID)
					hub.Scope().SetUser(sentry.User{ID: UserIDFromContext(c)})
					hub.Scope().SetRequest(c.Request)
					hub.Recover(rec)
					hub.Flush(2 * time.Second)
				}
				respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
			}
		}()
		c.Next()
	}
}
