package news

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/respond"
)

type Handler struct {
	Gateway *Gateway
}

func NewHandler(g *Gateway) *Handler {
	return &Handler{Gateway: g}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/news", h.list)
}

func (h *Handler) list(c *gin.Context) {
	force, _ := strconv.ParseBool(c.DefaultQuery("force_refresh", "false"))
	respond.OK(c, h.Gateway.GetNews(c.Request.Context(), force))
}
