package handler

import (
	"errors"

	"botdash/gateway/internal/service"
	"botdash/gateway/internal/util"
	"botdash/gateway/internal/view"
	"botdash/gateway/pkg/tradeapi"

	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the consolidated dashboard view state
type DashboardHandler struct {
	dash *view.Dashboard
	auth *service.AuthService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dash *view.Dashboard, auth *service.AuthService) *DashboardHandler {
	return &DashboardHandler{dash: dash, auth: auth}
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var (
		state view.DashboardState
		err   error
	)
	if wantsRefresh(c) {
		state, err = h.dash.Refresh(c.Request.Context(), sess.Token)
	} else {
		state, err = h.dash.Load(c.Request.Context(), sess.Token)
	}

	if err != nil && errors.Is(err, tradeapi.ErrUnauthorized) {
		sendUpstreamError(c, h.auth, err)
		return
	}

	util.SendSuccess(c, state)
}
