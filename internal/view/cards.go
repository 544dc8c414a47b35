package view

import (
	"context"
	"sync"

	"botdash/gateway/internal/model"
	"botdash/gateway/pkg/logger"
	"botdash/gateway/pkg/tradeapi"
)

// Cards is the enrichment controller for per-bot cards. For each bot it
// fetches trades and reconciles holdings: the bot's own assets when
// present, a synthesized placeholder otherwise. Trade fetches are
// secondary, so a failing panel degrades to an empty history and zeroed
// metrics instead of an error.
type Cards struct {
	api *tradeapi.Client
	log *logger.Logger

	mu    sync.Mutex
	gates map[int64]*gate
	cards map[int64]model.BotCard
}

// NewCards creates the card enrichment controller
func NewCards(api *tradeapi.Client, log *logger.Logger) *Cards {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Cards{
		api:   api,
		log:   log,
		gates: make(map[int64]*gate),
		cards: make(map[int64]model.BotCard),
	}
}

// Enrich builds and commits the card view for one bot. It always commits
// a complete card, even when every secondary fetch failed, so derived
// values never operate on missing data.
func (c *Cards) Enrich(ctx context.Context, token string, bot tradeapi.Bot) model.BotCard {
	c.mu.Lock()
	g, ok := c.gates[bot.ID]
	if !ok {
		g = &gate{}
		c.gates[bot.ID] = g
	}
	fctx, gen := g.open(ctx)
	c.mu.Unlock()

	trades := c.api.GetBotTrades(fctx, token, bot.ID)
	card := model.BuildBotCard(bot, trades)

	c.mu.Lock()
	defer c.mu.Unlock()
	if g.current(gen) {
		c.cards[bot.ID] = card
	}
	return card
}

// Cached returns the last committed card for a bot, if any
func (c *Cards) Cached(botID int64) (model.BotCard, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	card, ok := c.cards[botID]
	return card, ok
}

// Close cancels all in-flight enrichment fetches
func (c *Cards) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.gates {
		g.close()
	}
}
