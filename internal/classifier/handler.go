package classifier

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"legal-file-auditor/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler exposes document classification over HTTP.
type Handler struct {
	Svc Classifier
}

// NewHandler constructs a Handler.
func NewHandler(svc Classifier) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches classifier routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/classify", h.classify)
}

func (h *Handler) classify(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Classify(c.Request.Context(), Input{
		FileName: fileHeader.Filename,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Data:     data,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_type", "Unsupported file type", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "classification_failed", "Failed to analyze document", err.Error())
		}
		return
	}
	respond.OK(c, res)
}
