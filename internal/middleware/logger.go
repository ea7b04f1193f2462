package middleware

import (
	"time"

	"catering_store/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger attaches a request-scoped entry to the context and writes
// one line per request when it completes
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := log.WithField("request_id", c.GetString(RequestIDKey))
		logging.WithEntry(c, entry)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		line := logging.FromContext(c).WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"route":     route,
			"status":    status,
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch {
		case status >= 500:
			line.Error("request completed")
		case status >= 400:
			line.Warn("request completed")
		default:
			line.Info("request completed")
		}
	}
}
