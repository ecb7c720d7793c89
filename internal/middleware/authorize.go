package middleware

import (
	"net/http" // HTTP status codes

	"library_system/internal/authz" // Role policy table

	"github.com/gin-gonic/gin" // Gin web framework
)

// Authorize enforces the role policy for one resource/action pair. Deny
// short-circuits before the handler runs, so no partial side effects
// occur on a denied request. Forbidden shares the 401 status with
// unauthenticated; the body text distinguishes them.
func Authorize(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if !authz.Allowed(user.Role, action, resource) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}
		c.Next()
	}
}
