package handler

import (
	"errors"
	"strconv"

	"botdash/gateway/internal/middleware"
	"botdash/gateway/internal/service"
	"botdash/gateway/internal/session"
	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/tradeapi"

	"github.com/gin-gonic/gin"
)

// sessionFrom pulls the authenticated session off the request context
func sessionFrom(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(middleware.CtxSession)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok
}

// mustSession resolves the session or answers 401
func mustSession(c *gin.Context) (*session.Session, bool) {
	sess, ok := sessionFrom(c)
	if !ok {
		util.SendError(c, util.ErrUnauthorized("User not authenticated"))
		return nil, false
	}
	return sess, true
}

// sendUpstreamError maps an upstream failure onto the response. An
// upstream 401 tears down the session first, forcing re-authentication.
func sendUpstreamError(c *gin.Context, auth *service.AuthService, err error) {
	if errors.Is(err, tradeapi.ErrUnauthorized) {
		if sess, ok := sessionFrom(c); ok {
			auth.Invalidate(c.Request.Context(), sess.ID)
		}
		util.SendError(c, util.ErrSessionExpired())
		return
	}
	util.SendError(c, util.FromUpstream(err))
}

// botIDParam parses the :id route parameter
func botIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		util.SendError(c, util.ErrBadRequest("Invalid bot ID"))
		return 0, false
	}
	return id, true
}

// wantsRefresh reports whether the request asked for a stale-while-refresh
// re-fetch instead of a first load.
func wantsRefresh(c *gin.Context) bool {
	return c.Query("refresh") == "1"
}
