package http

import (
	"net/http"
	"strings"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/services"
	"mediagate/pkg/errors"
	"mediagate/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler issues bearer tokens for the dev and support surface. The
// production identity provider lives upstream and signs with the same secret.
type AuthHandler struct {
	authService services.AuthService
	tokenTTL    time.Duration
}

func NewAuthHandler(authService services.AuthService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		tokenTTL:    tokenTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/token", h.IssueToken)
	}
}

type TokenRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
	Role  string `json:"role" binding:"max=32"`
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := validation.ValidateEmail(req.Email); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}

	role := domain.Role(req.Role)
	switch role {
	case domain.RoleAdmin, domain.RoleSysadmin:
	default:
		role = domain.RoleUser
	}

	principal := domain.Principal{
		ID:    domain.PrincipalID(uuid.New().String()),
		Email: req.Email,
		Role:  role,
	}

	token, err := h.authService.GenerateToken(principal)
	if err != nil {
		c.Error(errors.NewInternalError("failed to generate token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"principal_id": principal.ID,
		"access_token": token,
		"expires_in":   int(h.tokenTTL / time.Second),
	})
}
