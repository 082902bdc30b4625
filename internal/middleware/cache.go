package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore marks responses as uncacheable by browsers and proxies. Reports
// change with every marks entry, so only the server side cache may hold them.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
