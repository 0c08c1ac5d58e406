package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"

	"aquamon/metrics"
)

// LatencyMetrics records per-route request latency.
func LatencyMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HttpRequestLatencySeconds.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
