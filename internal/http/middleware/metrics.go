package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/amelfit-backend/internal/observability"
)

// Metrics records per-route request counts and latency. Unmatched paths share one label so
// scanners can't blow up series cardinality. Health probes are not counted.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if isProbe(c) {
			c.Next()
			return
		}
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func isProbe(c *gin.Context) bool {
	return c.Request.URL.Path == "/healthcheck"
}
