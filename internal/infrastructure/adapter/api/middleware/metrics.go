package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// HTTPMetrics receives one observation per finished request
type HTTPMetrics interface {
	ObserveHTTPRequest(method, path string, status int, elapsed time.Duration)
	InFlight(delta float64)
}

// Metrics records request counts and latency labeled by route template,
// so /users/1 and /users/2 share a series.
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight(1)
		defer m.InFlight(-1)

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
