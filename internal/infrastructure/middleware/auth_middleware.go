package middleware

import (
	"net/http"
	"strings"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/services"
	"mediagate/pkg/logger"

	"github.com/gin-gonic/gin"
)

const principalContextKey = "principal"

// bearerToken extracts the credential from the Authorization header or,
// for media URLs pasted into players that cannot set headers, from the
// authToken query parameter.
func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
		return ""
	}
	return c.Query("authToken")
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			c.Abort()
			return
		}

		principal, err := authService.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a principal when a valid token is present
// and leaves the request anonymous otherwise. An invalid token is treated as
// anonymous here; the deny surface downstream distinguishes 401 from 403.
func OptionalAuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if principal, err := authService.ValidateToken(token); err == nil {
				setPrincipal(c, principal)
			}
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalContextKey, p)
	c.Request = c.Request.WithContext(
		logger.WithPrincipalID(c.Request.Context(), string(p.ID)),
	)
}

// PrincipalFromContext returns the authenticated principal, or the zero
// (anonymous) principal when the request carried no valid token.
func PrincipalFromContext(c *gin.Context) domain.Principal {
	if v, exists := c.Get(principalContextKey); exists {
		if p, ok := v.(domain.Principal); ok {
			return p
		}
	}
	return domain.Principal{}
}
