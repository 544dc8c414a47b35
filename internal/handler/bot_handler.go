package handler

import (
	"errors"

	"botdash/gateway/internal/service"
	"botdash/gateway/internal/util"
	"botdash/gateway/internal/view"
	"botdash/gateway/pkg/tradeapi"

	"github.com/gin-gonic/gin"
)

// BotHandler serves the bot list, per-bot cards and per-bot subresources.
// List and card responses are view states: a fetch failure after a
// successful load still answers 200 with the stale data and the inline
// error text, exactly what the screen renders.
type BotHandler struct {
	api   *tradeapi.Client
	list  *view.BotList
	cards *view.Cards
	auth  *service.AuthService
}

// NewBotHandler creates a new bot handler
func NewBotHandler(api *tradeapi.Client, list *view.BotList, cards *view.Cards, auth *service.AuthService) *BotHandler {
	return &BotHandler{
		api:   api,
		list:  list,
		cards: cards,
		auth:  auth,
	}
}

// ListBots handles GET /api/v1/bots
func (h *BotHandler) ListBots(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	var (
		state view.BotListState
		err   error
	)
	if wantsRefresh(c) {
		state, err = h.list.Refresh(c.Request.Context(), sess.Token)
	} else {
		state, err = h.list.Load(c.Request.Context(), sess.Token)
	}

	if err != nil && errors.Is(err, tradeapi.ErrUnauthorized) {
		sendUpstreamError(c, h.auth, err)
		return
	}

	util.SendSuccess(c, state)
}

// ListSummaries handles GET /api/v1/bots/summary (the sidebar feed)
func (h *BotHandler) ListSummaries(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	summaries, err := h.list.Summaries(c.Request.Context(), sess.Token)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}

	util.SendSuccess(c, summaries)
}

// GetBot handles GET /api/v1/bots/:id, answering the enriched card view
func (h *BotHandler) GetBot(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	id, ok := botIDParam(c)
	if !ok {
		return
	}

	bot, found, err := h.list.Find(c.Request.Context(), sess.Token, id)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}
	if !found {
		util.SendError(c, util.ErrNotFound("Bot not found"))
		return
	}

	card := h.cards.Enrich(c.Request.Context(), sess.Token, bot)
	util.SendSuccess(c, card)
}

// GetBotState handles GET /api/v1/bots/:id/state
func (h *BotHandler) GetBotState(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}

	id, ok := botIDParam(c)
	if !ok {
		return
	}

	state, err := h.api.GetBotState(c.Request.Context(), sess.Token, id)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}

	util.SendSuccess(c, state)
}

// GetBotTrades handles GET /api/v1/bots/:id/trades
func (h *BotHandler) GetBotTrades(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotTrades(c.Request.Context(), sess.Token, id))
}

// GetBotAssets handles GET /api/v1/bots/:id/assets
func (h *BotHandler) GetBotAssets(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotAssets(c.Request.Context(), sess.Token, id))
}

// GetBotPrices handles GET /api/v1/bots/:id/prices
func (h *BotHandler) GetBotPrices(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotPrices(c.Request.Context(), sess.Token, id))
}

// GetBotPerformance handles GET /api/v1/bots/:id/performance
func (h *BotHandler) GetBotPerformance(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotPerformance(c.Request.Context(), sess.Token, id))
}

// GetBotCoins handles GET /api/v1/bots/:id/coins
func (h *BotHandler) GetBotCoins(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotCoins(c.Request.Context(), sess.Token, id))
}

// GetBotLogs handles GET /api/v1/bots/:id/logs
func (h *BotHandler) GetBotLogs(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotLogs(c.Request.Context(), sess.Token, id))
}

// GetBotTradeDecisions handles GET /api/v1/bots/:id/trade-decisions
func (h *BotHandler) GetBotTradeDecisions(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotTradeDecisions(c.Request.Context(), sess.Token, id))
}

// GetBotSwapDecisions handles GET /api/v1/bots/:id/swap-decisions
func (h *BotHandler) GetBotSwapDecisions(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}
	util.SendSuccess(c, h.api.GetBotSwapDecisions(c.Request.Context(), sess.Token, id))
}

// GetPriceComparison handles GET /api/v1/bots/:id/snapshots/price-comparison
func (h *BotHandler) GetPriceComparison(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}

	points, err := h.api.GetPriceComparison(c.Request.Context(), sess.Token, id)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}
	util.SendSuccess(c, points)
}

// GetHistoricalComparison handles GET /api/v1/bots/:id/snapshots/historical-comparison
func (h *BotHandler) GetHistoricalComparison(c *gin.Context) {
	sess, ok := mustSession(c)
	if !ok {
		return
	}
	id, ok := botIDParam(c)
	if !ok {
		return
	}

	points, err := h.api.GetHistoricalComparison(c.Request.Context(), sess.Token, id)
	if err != nil {
		sendUpstreamError(c, h.auth, err)
		return
	}
	util.SendSuccess(c, points)
}
