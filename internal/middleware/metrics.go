package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/socialverse/pkg/metrics"
)

// Metrics records request count and latency per route template. A panicking
// handler is recorded as 500 and the panic is passed on to Recovery.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}
		metrics.HTTPInFlight.Inc()
		start := time.Now()
		defer func() {
			metrics.HTTPInFlight.Dec()
			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			rec := recover()
			status := c.Writer.Status()
			if rec != nil {
				status = http.StatusInternalServerError
			}
			metrics.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
			metrics.HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
			if rec != nil {
				panic(rec)
			}
		}()
		c.Next()
	}
}
