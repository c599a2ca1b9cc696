package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKey gates administrator-only routes (role grant/revoke) behind a
// shared key presented in X-API-Key. With no key configured every request is
// refused rather than silently allowed.
func AdminKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"ok":    false,
				"error": "admin API key not configured",
			})
			return
		}

		key := c.GetHeader("X-API-Key")
		if key == "" || key != expected {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"ok":    false,
				"error": "invalid API key",
			})
			return
		}

		c.Next()
	}
}
