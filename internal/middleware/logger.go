package middleware

import (
	"time"

	"botdash/gateway/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Logger middleware logs HTTP requests
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		requestID, _ := c.Get("request_id")

		c.Next()

		latency := time.Since(start)
		statusCode := c.Writer.Status()

		logFields := map[string]interface{}{
			"request_id": requestID,
			"method":     method,
			"path":       path,
			"status":     statusCode,
			"latency_ms": latency.Milliseconds(),
			"ip":         c.ClientIP(),
		}

		if username, exists := c.Get(CtxUsername); exists {
			logFields["username"] = username
		}

		entry := log.WithFields(logFields)
		switch {
		case statusCode >= 500:
			entry.Errorf("request failed: %s %s", method, path)
		case statusCode >= 400:
			entry.Warnf("request rejected: %s %s", method, path)
		default:
			entry.Infof("request: %s %s", method, path)
		}
	}
}
