package firms

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/shared/server/middleware"
	"legal-file-auditor/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches firm routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/firms", h.create)
	rg.GET("/firms", h.list)
	rg.GET("/firms/:firmId", h.get)
	rg.PUT("/firms/:firmId", h.update)
	rg.DELETE("/firms/:firmId", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	f, err := h.Svc.Create(c.Request.Context(), req.input())
	if err != nil {
		writeError(c, err, "failed to create firm")
		return
	}
	c.Set(middleware.FirmIDKey, f.ID)
	respond.JSON(c, http.StatusCreated, ToResponse(f))
}

func (h *Handler) list(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.Query("active"))
	list, err := h.Svc.List(c.Request.Context(), activeOnly)
	if err != nil {
		writeError(c, err, "failed to list firms")
		return
	}
	out := make([]Response, 0, len(list))
	for _, f := range list {
		out = append(out, ToResponse(f))
	}
	respond.OK(c, gin.H{"firms": out})
}

func (h *Handler) get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), c.Param("firmId"))
	if err != nil {
		writeError(c, err, "failed to fetch firm")
		return
	}
	respond.OK(c, ToResponse(f))
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	f, err := h.Svc.Update(c.Request.Context(), c.Param("firmId"), req.input())
	if err != nil {
		writeError(c, err, "failed to update firm")
		return
	}
	respond.OK(c, ToResponse(f))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("firmId")); err != nil {
		writeError(c, err, "failed to delete firm")
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "firm not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrInactive):
		respond.Error(c, http.StatusConflict, "firm_inactive", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}
