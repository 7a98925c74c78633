package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCountersAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	IncCMSRequest("clio", "ok")
	ObserveScan("firm", "completed", 1.5)
	IncAudit("demand")

	r := gin.New()
	r.GET("/metrics", Handler())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`auditor_cms_requests_total{outcome="ok",provider="clio"}`, "auditor_scan_duration_seconds_bucket", `auditor_audits_total{phase="demand"}`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in metrics output", want)
		}
	}
}
