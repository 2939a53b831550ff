package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware rejects requests whose authenticated user is not an admin.
// Must run after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || role != "ADMIN" {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
