package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller_address"

// Caller records the authenticated caller's account address from the
// X-Caller-Address header. Identity verification happens upstream of this
// service; an empty header is allowed here so that anonymous queries work,
// and mutating handlers reject requests without a caller themselves.
func Caller() gin.HandlerFunc {
	return func(c *gin.Context) {
		addr := strings.TrimSpace(c.GetHeader("X-Caller-Address"))
		if addr != "" {
			c.Set(callerKey, addr)
		}
		c.Next()
	}
}

// CallerAddress returns the caller's address, or "" for anonymous requests.
func CallerAddress(c *gin.Context) string {
	return c.GetString(callerKey)
}
