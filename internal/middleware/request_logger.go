package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mantonx/cinelist/internal/api"
	"github.com/mantonx/cinelist/internal/logger"
	"github.com/mantonx/cinelist/internal/metrics"
)

// RequestLogger logs every HTTP request and records its latency
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, route, strconv.Itoa(status), duration.Seconds())

		// Skip logging for health checks
		if c.Request.URL.Path == "/api/health" {
			return
		}

		args := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", status,
			"duration", duration.String(),
			"size", c.Writer.Size(),
			"ip", c.ClientIP(),
			"request_id", c.GetString(api.RequestIDKey),
		}
		if status >= 500 {
			logger.Warn("HTTP request failed", args...)
			return
		}
		logger.Debug("HTTP request", args...)
	}
}

// ErrorLogger logs errors attached to the gin context
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, err := range c.Errors {
			logger.Error("Request error",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"error", err.Error(),
				"type", err.Type,
				"request_id", c.GetString(api.RequestIDKey),
			)
		}
	}
}
