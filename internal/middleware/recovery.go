package middleware

import (
	"net/http"
	"runtime/debug"

	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 envelope so one bad request
// never takes the gateway down.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Get("request_id")

				log.WithFields(map[string]interface{}{
					"request_id": requestID,
					"method":     c.Request.Method,
					"path":       c.Request.URL.Path,
					"stack":      string(debug.Stack()),
				}).Errorf("panic recovered: %v", r)

				util.AbortWithCustomError(c, http.StatusInternalServerError,
					util.ErrCodeInternal, "Internal server error")
			}
		}()

		c.Next()
	}
}
