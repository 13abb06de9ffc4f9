package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marco/workyard/internal/logger"
)

// UserIDKey is the Gin context key holding the authenticated user ID.
const UserIDKey = "user_id"

// Identity extracts the caller identity resolved by the upstream session
// layer. Authentication itself lives outside this service; the gateway in
// front of it injects the X-User-ID header after validating the session.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing user identity",
			})
			return
		}
		c.Set(UserIDKey, userID)
		c.Request = c.Request.WithContext(
			logger.WithField(c.Request.Context(), logger.FieldUserID, userID))
		c.Next()
	}
}

// UserID returns the authenticated user ID from the Gin context.
func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
