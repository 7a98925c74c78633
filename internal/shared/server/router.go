package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/classifier"
	"legal-file-auditor/internal/firms"
	"legal-file-auditor/internal/scans"
	"legal-file-auditor/internal/services/health"
	"legal-file-auditor/internal/shared/config"
	"legal-file-auditor/internal/shared/metrics"
	"legal-file-auditor/internal/shared/server/middleware"
	"legal-file-auditor/internal/shared/server/respond"
)

const scanRateGroup = "SCAN"

// RouterDeps are the handlers mounted under /api/v1.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	FirmHandler      *firms.Handler
	ScanHandler      *scans.Handler
	ClassifyHandler  *classifier.Handler
	RateLimitLimiter *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:  deps.RateLimitLimiter,
			GroupFor: rateGroup,
			Rules: map[string]middleware.RateLimitRule{
				scanRateGroup: {Rate: 0.2, Burst: 5},
			},
		}),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		payload, ok := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !ok {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, payload)
	})
	api.GET("/metrics", metrics.Handler())

	if deps.FirmHandler != nil {
		deps.FirmHandler.RegisterRoutes(api)
	}
	if deps.ScanHandler != nil {
		deps.ScanHandler.RegisterRoutes(api)
	}
	if deps.ClassifyHandler != nil {
		deps.ClassifyHandler.RegisterRoutes(api)
	}

	return r
}

// rateGroup throttles the endpoints that fan out to a CMS.
func rateGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	if strings.HasPrefix(c.Request.URL.Path, "/api/v1/scans/") {
		return scanRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
