package scans

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/cmsadapter"
	"legal-file-auditor/internal/firms"
	"legal-file-auditor/internal/shared/server/middleware"
	"legal-file-auditor/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// ScanTimeout bounds synchronous scan requests.
	ScanTimeout time.Duration
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, scanTimeout time.Duration) *Handler {
	return &Handler{Svc: svc, ScanTimeout: scanTimeout}
}

// RegisterRoutes attaches scan, audit and provider routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	timeout := middleware.Timeout(h.ScanTimeout)

	rg.POST("/scans/case", timeout, h.scanCase)
	rg.POST("/scans/firm", timeout, h.scanFirm)
	rg.GET("/scans/:scanId", h.getScan)
	rg.GET("/scans/:scanId/report", h.report)
	rg.GET("/firms/:firmId/stats", h.stats)
	rg.GET("/firms/:firmId/cases", timeout, h.cases)
	rg.GET("/firms/:firmId/cases/:caseId/audit", timeout, h.auditCase)
	rg.POST("/connections/test", h.testConnection)
	rg.GET("/providers", h.providers)
}

type scanCaseRequest struct {
	FirmID string `json:"firmId"`
	CaseID string `json:"caseId"`
}

func (h *Handler) scanCase(c *gin.Context) {
	var req scanCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.FirmID = strings.TrimSpace(req.FirmID)
	req.CaseID = strings.TrimSpace(req.CaseID)
	if req.FirmID == "" || req.CaseID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "firmId and caseId are required", nil)
		return
	}
	c.Set(middleware.FirmIDKey, req.FirmID)
	c.Set(middleware.CaseIDKey, req.CaseID)

	res, err := h.Svc.ScanCase(c.Request.Context(), req.FirmID, req.CaseID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ScanIDKey, res.ScanID)
	respond.OK(c, res)
}

type scanFirmRequest struct {
	FirmID string `json:"firmId"`
	Async  bool   `json:"async"`
}

func (h *Handler) scanFirm(c *gin.Context) {
	var req scanFirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.FirmID = strings.TrimSpace(req.FirmID)
	if req.FirmID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "firmId is required", nil)
		return
	}
	if async, err := strconv.ParseBool(c.Query("async")); err == nil {
		req.Async = async
	}
	c.Set(middleware.FirmIDKey, req.FirmID)

	if req.Async {
		log, err := h.Svc.EnqueueFirmScan(c.Request.Context(), req.FirmID, middleware.RequestIDFromContext(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.Set(middleware.ScanIDKey, log.ID)
		respond.Accepted(c, gin.H{"scanId": log.ID, "status": log.Status})
		return
	}

	res, err := h.Svc.ScanFirm(c.Request.Context(), req.FirmID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.ScanIDKey, res.ScanID)
	respond.OK(c, res)
}

func (h *Handler) getScan(c *gin.Context) {
	log, err := h.Svc.GetLog(c.Request.Context(), c.Param("scanId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.FirmIDKey, log.FirmID)
	respond.OK(c, log)
}

func (h *Handler) report(c *gin.Context) {
	rc, err := h.Svc.OpenReport(c.Request.Context(), c.Param("scanId"))
	if err != nil {
		writeError(c, err)
		return
	}
	defer rc.Close()
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, rc); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context(), c.Param("firmId"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, stats)
}

func (h *Handler) cases(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	res, err := h.Svc.FirmCases(c.Request.Context(), c.Param("firmId"), page, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) auditCase(c *gin.Context) {
	report, err := h.Svc.AuditCase(c.Request.Context(), c.Param("firmId"), c.Param("caseId"))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, report)
}

func (h *Handler) testConnection(c *gin.Context) {
	var cfg cmsadapter.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	respond.OK(c, h.Svc.TestConnection(c.Request.Context(), cfg))
}

func (h *Handler) providers(c *gin.Context) {
	respond.OK(c, gin.H{"providers": cmsadapter.Providers()})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "scan not found", nil)
	case errors.Is(err, firms.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "firm not found", nil)
	case errors.Is(err, ErrCaseNotFound):
		respond.Error(c, http.StatusNotFound, "case_not_found", "case not found", nil)
	case errors.Is(err, ErrReportUnavailable):
		respond.Error(c, http.StatusNotFound, "report_unavailable", "no stored report for this scan", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, firms.ErrInactive):
		respond.Error(c, http.StatusBadRequest, "firm_inactive", "Firm is not active", nil)
	case errors.Is(err, ErrQueueDisabled):
		respond.Error(c, http.StatusServiceUnavailable, "queue_disabled", "async scans are not configured", nil)
	case errors.Is(err, ErrConnection):
		respond.Error(c, http.StatusBadGateway, "cms_unavailable", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded):
		respond.Error(c, http.StatusGatewayTimeout, "timeout", "scan timed out", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "scan_failed", "Scan failed", err.Error())
	}
}
