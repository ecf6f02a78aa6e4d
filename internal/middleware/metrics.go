package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"io.winapps.smokefree/internal/metrics"
)

// MetricsMiddleware records request counts and latency labelled by the gin
// route template, so /diary/1 and /diary/2 share a series.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		done := metrics.HTTPRequestStarted()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		done(strings.ToUpper(c.Request.Method), route, strconv.Itoa(c.Writer.Status()))
	}
}
