package risk

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/middleware"
	"finance-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/risk/analyze", h.analyze)
	rg.GET("/risk/analysis", h.latest)
	rg.GET("/risk/analyses", h.history)
}

type analysisResponse struct {
	ID        string    `json:"id"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"created_at"`
	Result
}

func toResponse(a Analysis) analysisResponse {
	return analysisResponse{ID: a.ID, Profile: a.Profile, CreatedAt: a.CreatedAt, Result: a.Result}
}

func (h *Handler) analyze(c *gin.Context) {
	var in ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	a, err := h.Svc.Analyze(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Error(), gin.H{"missing": verr.Missing})
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save risk analysis", nil)
		}
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(a))
}

func (h *Handler) latest(c *gin.Context) {
	a, err := h.Svc.Latest(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.OK(c, gin.H{"analysis": nil, "message": "No risk analysis found. Complete the questionnaire to get one."})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch risk analysis", nil)
		return
	}
	respond.OK(c, gin.H{"analysis": toResponse(a)})
}

func (h *Handler) history(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	limit = min(max(limit, 1), 100)

	list, err := h.Svc.History(c.Request.Context(), middleware.UserIDFromContext(c), limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list risk analyses", nil)
		return
	}
	resp := make([]analysisResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, toResponse(a))
	}
	respond.OK(c, gin.H{"analyses": resp})
}
