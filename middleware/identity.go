package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the context key under which RequireUser stores the caller id.
const UserIDKey = "userID"

// RequireUser extracts the authenticated user id forwarded by the auth
// gateway. Authentication itself happens upstream; this core trusts the
// header completely and only scopes data access by it.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing X-User-ID header"})
			c.Abort()
			return
		}
		c.Set(UserIDKey, userID)
		c.Next()
	}
}
