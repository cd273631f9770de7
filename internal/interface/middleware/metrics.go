package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LeeyaD/phonebook-server/pkg/metrics"
)

// Metrics records request count and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
