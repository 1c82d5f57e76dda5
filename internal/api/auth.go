package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/craveq/backend/internal/service"
	"github.com/pageza/craveq/backend/internal/types"
)

// AuthHandler issues admin tokens
type AuthHandler struct {
	authService service.IAuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.IAuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the auth routes
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/token", h.Token)
	}
}

// Token exchanges the admin password for a bearer token
func (h *AuthHandler) Token(c *gin.Context) {
	var req types.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "password is required"})
		return
	}

	token, claims, err := h.authService.Login(req.Password)
	switch {
	case errors.Is(err, service.ErrAdminDisabled):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "admin login is disabled"})
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, types.ErrorResponse{Error: "invalid credentials"})
		return
	case err != nil:
		log.Printf("[Auth] Failed to issue token: %v", err)
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{Error: "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, types.TokenResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Unix(),
	})
}
