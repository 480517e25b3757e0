package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/logger"
)

// RecoveryMiddleware logs a handler panic and answers 500 instead of
// dropping the connection.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.Errorf("%s %s panic: %v\n%s", c.Request.Method, c.Request.URL.Path, p, debug.Stack())
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
