package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/utils/metrics"
)

// Metrics returns a middleware that records request counts and latency.
// Paths are labelled by route template to keep cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPRequestsInFlight.Inc()
		start := time.Now()

		c.Next()

		m.HTTPRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
