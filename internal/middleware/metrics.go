package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docsched/clinic-booking-api/internal/service"
)

// Metrics records latency and status for every request. The route template
// is preferred over the raw path so /days/Monday/slots and /days/Friday/slots
// land in one series.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
