package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records request counts, status distribution and latency for
// every request passing through the router.
func Middleware(metrics *Metrics, logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementRequest()

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequestByStatus(status)
		if status >= 500 {
			metrics.IncrementError()
		}

		logger.RequestLogger(c.Request.Method, c.Request.URL.Path, c.ClientIP(), status, duration)
	}
}
