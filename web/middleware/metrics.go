package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/resalelab/carprice/util/metrics"
)

// MetricsMiddleware records the duration of every routed request.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
