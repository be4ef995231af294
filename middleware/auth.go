// middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"servilink/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and stores the caller's
// identity and role in the gin context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ClaimsFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("userID", subject)
		c.Set("role", role)
		c.Next()
	}
}

// RequireRole gates a route group to the given roles. It assumes
// JWTAuthMiddleware already ran.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this operation"})
	}
}
