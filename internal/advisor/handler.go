package advisor

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/llm"
	"finance-backend/internal/shared/server/middleware"
	"finance-backend/internal/shared/server/respond"
)

type Handler struct {
	Gateway *Gateway
}

func NewHandler(g *Gateway) *Handler {
	return &Handler{Gateway: g}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ai/insights", h.insights)
	rg.POST("/ai/chat", h.chat)
	rg.GET("/ai/chat-history", h.history)
	rg.DELETE("/ai/chat-history", h.clearHistory)
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	// History overrides the stored conversation when present, even if empty.
	History []llm.Message `json:"history"`
}

func (h *Handler) insights(c *gin.Context) {
	respond.OK(c, h.Gateway.Insight(c.Request.Context(), middleware.UserIDFromContext(c)))
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "message is required", nil)
		return
	}
	reply, err := h.Gateway.Chat(c.Request.Context(), middleware.UserIDFromContext(c), req.Message, req.History)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "message must be 1-4000 characters", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "chat failed", nil)
		return
	}
	respond.OK(c, reply)
}

func (h *Handler) history(c *gin.Context) {
	msgs, err := h.Gateway.History(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load chat history", nil)
		return
	}
	respond.OK(c, gin.H{"messages": msgs})
}

func (h *Handler) clearHistory(c *gin.Context) {
	if err := h.Gateway.ClearHistory(c.Request.Context(), middleware.UserIDFromContext(c)); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear chat history", nil)
		return
	}
	respond.NoContent(c)
}
