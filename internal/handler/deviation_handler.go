package handler

import (
	"errors"
	"net/http"

	"botdash/gateway/internal/service"
	"botdash/gateway/internal/util"
	"botdash/gateway/internal/view"
	"botdash/gateway/pkg/tradeapi"

	"github.com/gin-gonic/gin"
)

// DeviationHandler serves the manual deviation calculator and the
// server-computed per-bot deviations.
type DeviationHandler struct {
	api  *tradeapi.Client
	calc *view.Calculator
	auth *service.AuthService
}

// NewDeviationHandler creates a new deviation handler
func NewDeviationHandler(api *tradeapi.Client, calc *view.Calculator, auth *service.AuthService) *DeviationHandler {
	return &DeviationHandler{
		api:  api,
		calc: calc,
		auth: auth,
	}
}

// Calculate handles POST /api/v1/deviations/calculate
func (h *DeviationHandler) Calculate(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var req view.CalcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.SendValidationError(c, err.Error())
		return
	}

	entry, err := h.calc.Calculate(c.Request.Context(), sess.Token, req)
	if err != nil {
		switch {
		case errors.Is(err, view.ErrInvalidPrice), errors.Is(err, view.ErrIncompletePrices):
			util.SendError(c, util.ErrValidation(err.Error()))
		case errors.Is(err, view.ErrPriceUnavailable):
			util.SendError(c, util.WrapError(http.StatusBadGateway, util.ErrCodeUpstream, "Price data unavailable", err))
		default:
			sendUpstreamError(c, h.auth, err)
		}
		return
	}

	util.SendSuccess(c, entry)
}

// History handles GET /api/v1/deviations/history
func (h *DeviationHandler) History(c *gin.Context) {
	if _, ok := mustSession(c); !ok {
		return
	}

	util.SendSuccess(c, h.calc.History())
}

// GetBotDeviations handles GET /api/v1/deviations/bots/:id
func (h *DeviationHandler) GetBotDeviations(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	id, ok := botIDParam(c)
	if !ok {
		return
	}

	records, err := h.api.GetBotDeviations(c.Request.Context(), sess.Token, id)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}

	util.SendSuccess(c, records)
}
