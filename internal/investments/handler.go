package investments

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/middleware"
	"finance-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc           *Service
	MaxUploadSize int64
}

func NewHandler(svc *Service, maxUploadSize int64) *Handler {
	return &Handler{Svc: svc, MaxUploadSize: maxUploadSize}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/investments", h.list)
	rg.GET("/investments/summary", h.summary)
	rg.POST("/investments/import", h.importFile)
}

func (h *Handler) list(c *gin.Context) {
	holdings, sample, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load investments", nil)
		return
	}
	respond.OK(c, gin.H{"investments": holdings, "sample": sample})
}

func (h *Handler) summary(c *gin.Context) {
	sum, err := h.Svc.Summary(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to summarize investments", nil)
		return
	}
	respond.OK(c, sum)
}

func (h *Handler) importFile(c *gin.Context) {
	if h.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadSize+(1<<20))
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if h.MaxUploadSize > 0 && fileHeader.Size > h.MaxUploadSize {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds upload limit", gin.H{"maxBytes": h.MaxUploadSize})
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

	holdings, err := h.Svc.Import(c.Request.Context(), middleware.UserIDFromContext(c), fileHeader.Filename, data)
	if err != nil {
		var missing *MissingColumnsError
		switch {
		case errors.As(err, &missing):
			respond.Error(c, http.StatusBadRequest, "validation_error", "missing required columns", gin.H{"missing": missing.Columns})
		case errors.Is(err, ErrUnsupportedType):
			respond.Error(c, http.StatusBadRequest, "unsupported_media", "only .xlsx and .csv files can be imported", nil)
		case errors.Is(err, ErrUnreadable):
			respond.Error(c, http.StatusBadRequest, "validation_error", "could not read spreadsheet", nil)
		case errors.Is(err, ErrNoData):
			respond.Error(c, http.StatusBadRequest, "validation_error", ErrNoData.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import investments", nil)
		}
		return
	}
	respond.OK(c, gin.H{
		"success":     true,
		"message":     "Investment data imported successfully",
		"count":       len(holdings),
		"investments": holdings,
	})
}
