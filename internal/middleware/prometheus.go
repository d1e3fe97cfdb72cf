package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentora/rentora/internal/metrics"
)

// PrometheusMiddleware records per-route request counts and latencies.
// The route pattern is used as the path label so parameterized routes
// like /properties/:id do not explode label cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		labels := []string{c.Request.Method, route, strconv.Itoa(c.Writer.Status())}
		metrics.RequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(labels...).Inc()
	}
}
