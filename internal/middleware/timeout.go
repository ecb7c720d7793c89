package middleware

import (
	"context" // Deadline propagation
	"time"    // Timeout duration

	"github.com/gin-gonic/gin" // Gin web framework
)

// Timeout bounds every request with a deadline. Handlers thread the
// request context into storage calls, so an expired deadline cancels
// in-flight queries instead of letting them hang.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
