package middleware

import (
	"strings"

	"botdash/gateway/internal/service"
	"botdash/gateway/internal/util"

	"github.com/gin-gonic/gin"
)

// Context keys set by SessionAuth
const (
	CtxSession   = "session"
	CtxSessionID = "session_id"
	CtxUsername  = "username"
)

// SessionAuth requires a valid gateway session token and puts the resolved
// session on the request context.
func SessionAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.AbortWithCustomError(c, 401, util.ErrCodeUnauthorized, "Missing authorization header")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.AbortWithCustomError(c, 401, util.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}

		sess, err := authService.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			util.AbortWithError(c, err)
			return
		}

		c.Set(CtxSession, sess)
		c.Set(CtxSessionID, sess.ID)
		c.Set(CtxUsername, sess.Username)

		c.Next()
	}
}
