package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "GET, POST, PUT, DELETE, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

// CORS stamps the permissive header set on every response and answers any
// OPTIONS request with an empty 200, whether or not a route matches.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		for name, value := range corsHeaders {
			c.Header(name, value)
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
