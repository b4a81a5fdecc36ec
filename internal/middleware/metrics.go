package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/educonnect/internal/metrics"
)

// unmatchedRoute labels requests no stub route handled, so probing random
// paths cannot grow the label set.
const unmatchedRoute = "unmatched"

// Metrics records method, route template, status and latency for each stub
// request. The scrape endpoint itself is not counted.
func Metrics(m *metrics.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		began := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(began))
	}
}
