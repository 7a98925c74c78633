package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/shared/server/respond"
	"legal-file-auditor/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 error response and logs the stack with
// whatever firm or scan the request was working on.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic", map[string]any{
				"request_id": RequestIDFromContext(c),
				"firm_id":    contextValue(c, FirmIDKey),
				"scan_id":    contextValue(c, ScanIDKey),
				"error":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
				"method":     c.Request.Method,
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}
