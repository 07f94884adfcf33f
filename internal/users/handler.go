package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-backend/internal/shared/server/middleware"
	"finance-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the unauthenticated auth endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/token", h.token)
	rg.POST("/auth/register", h.register)
}

// RegisterRoutes attaches endpoints that require a bearer token.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", h.me)
	rg.GET("/users/me", h.me)
	rg.PUT("/users/me", h.update)
	rg.PUT("/users/me/password", h.changePassword)
}

type tokenForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) token(c *gin.Context) {
	var form tokenForm
	if err := c.ShouldBind(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "username and password are required", nil)
		return
	}
	tok, err := h.Svc.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			c.Header("WWW-Authenticate", "Bearer")
			respond.Error(c, http.StatusUnauthorized, "unauthorized", ErrInvalidCredentials.Error(), nil)
		case errors.Is(err, ErrInactive):
			respond.Error(c, http.StatusForbidden, "inactive_user", ErrInactive.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		}
		return
	}
	respond.OK(c, tok)
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", gin.H{"reason": err.Error()})
		return
	}
	user, err := h.Svc.Register(c.Request.Context(), RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, user.View())
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, user.View())
}

type updateRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
	Email    *string `json:"email"`
}

func (h *Handler) update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	user, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserIDFromContext(c), UpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, user.View())
}

type passwordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *Handler) changePassword(c *gin.Context) {
	var req passwordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "current_password and new_password are required", nil)
		return
	}
	err := h.Svc.ChangePassword(c.Request.Context(), middleware.UserIDFromContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "current password is incorrect", nil)
			return
		}
		writeError(c, err)
		return
	}
	respond.NoContent(c)
}

func writeError(c *gin.Context, err error) {
	var conflict *ConflictError
	switch {
	case errors.As(err, &conflict):
		respond.Error(c, http.StatusConflict, "conflict", conflict.Error(), gin.H{"field": conflict.Field})
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "user request failed", nil)
	}
}
