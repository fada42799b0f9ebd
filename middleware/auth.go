package middleware

import (
	"net/http"
	"strings"

	"sparkclean/services/booking"
	"sparkclean/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token and attaches the caller as a
// booking.Principal to the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, role, err := utils.ExtractClaims(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		if role != utils.RoleCustomer && role != utils.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not permitted"})
			return
		}

		principal := booking.Principal{ID: subject, Role: role}
		c.Request = c.Request.WithContext(booking.WithPrincipal(c.Request.Context(), principal))
		c.Set("principalID", subject)
		c.Set("role", role)
		c.Next()
	}
}
