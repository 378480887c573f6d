package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/container/logger"
	"github.com/kbukum/container/observability"
)

// RequestLogger logs each request at a level chosen by status. /health is
// skipped.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			ContextKeyRequestID, c.GetString(ContextKeyRequestID),
		)
		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}

// Metrics records request count and duration by route template.
func Metrics(m *observability.HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Record(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
