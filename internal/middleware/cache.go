package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore forbids caching. Every response here carries patient data, so
// the API defaults to no caching anywhere.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
