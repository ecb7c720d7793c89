package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // Header parsing

	"library_system/internal/domain" // Importing domain models
	"library_system/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// currentUserKey is where the resolved identity lives in the Gin context.
// Identity is scoped to the request; there is no process-wide current user.
const currentUserKey = "currentUser"

// JWTAuthMiddleware resolves the bearer token to a user row. Every failure
// mode (missing header, bad signature, expired token, unknown user id)
// yields the same uniform 401.
func JWTAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseJWT(tokenStr, secret) // Parse and verify the token
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		// The single storage round trip identity resolution is allowed:
		// a token pointing at a deleted user fails closed.
		var user domain.User
		if err := db.WithContext(c.Request.Context()).First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Set(currentUserKey, user) // Store resolved identity in context
		c.Next()
	}
}

// CurrentUser returns the identity resolved by JWTAuthMiddleware.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
