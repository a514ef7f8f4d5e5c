package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guhospital/hms-api/internal/handler"
	"github.com/guhospital/hms-api/internal/repository"
	"github.com/guhospital/hms-api/pkg/auth"
)

type AuthMiddleware struct {
	jwt    auth.JWTService
	tokens repository.TokenRepository
}

func NewAuthMiddleware(jwt auth.JWTService, tokens repository.TokenRepository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, tokens: tokens}
}

// Authenticate verifies the bearer token and puts the caller identity into
// the request context
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		revoked, err := m.tokens.IsRevoked(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("internal server error"))
			c.Abort()
			return
		}
		if revoked {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("token revoked"))
			c.Abort()
			return
		}

		c.Set(handler.ContextUserID, claims.UserID)
		c.Set(handler.ContextUsername, claims.Username)
		c.Set(handler.ContextUserRole, claims.Role)
		c.Next()
	}
}
