package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/shared/telemetry"
)

// Context keys handlers set so the request log line can carry domain ids.
const (
	FirmIDKey = "firmId"
	CaseIDKey = "caseId"
	ScanIDKey = "scanId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"firm_id":     contextValue(c, FirmIDKey),
			"case_id":     contextValue(c, CaseIDKey),
			"scan_id":     contextValue(c, ScanIDKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}

func contextValue(c *gin.Context, key string) string {
	if v := c.GetString(key); v != "" {
		return v
	}
	return c.Param(key)
}
