package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guyghost/wakeve-auth/domain"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID      = "user_id"
	ContextUserEmail   = "user_email"
	ContextProvider    = "auth_provider"
	ContextAccessToken = "access_token"
)

// AuthMiddleware creates authentication middleware. The token must verify
// and must not belong to a revoked session.
func AuthMiddleware(tokenSvc domain.TokenService, sessions domain.SessionManager) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		token := tokenParts[1]

		claims := tokenSvc.VerifyToken(token)
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		// Revocation wins over a valid signature.
		if sessions.IsTokenBlacklisted(c.Request.Context(), token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token revoked"})
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextProvider, claims.Provider)
		c.Set(ContextAccessToken, token)

		c.Next()
	})
}
