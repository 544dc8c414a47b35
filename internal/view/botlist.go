package view

import (
	"context"
	"sync"

	"botdash/gateway/internal/model"
	"botdash/gateway/pkg/logger"
	"botdash/gateway/pkg/tradeapi"
)

// BotListState is what the "All Bots" screen renders
type BotListState struct {
	Bots       []model.BotView `json:"bots"`
	Loading    bool            `json:"loading"`
	Refreshing bool            `json:"refreshing"`
	Error      string          `json:"error,omitempty"`
}

// BotList is the view-state controller for the bot list screen. It owns
// the sorted list, the loading/refreshing flags and the inline error, and
// feeds the sidebar its compact summary list.
type BotList struct {
	api *tradeapi.Client
	log *logger.Logger

	mu    sync.Mutex
	gate  gate
	state fetchState
	bots  []tradeapi.Bot
}

// NewBotList creates the bot list controller
func NewBotList(api *tradeapi.Client, log *logger.Logger) *BotList {
	if log == nil {
		log = logger.GetLogger()
	}
	return &BotList{api: api, log: log}
}

// Load fetches the list, showing the loading state on first load
func (c *BotList) Load(ctx context.Context, token string) (BotListState, error) {
	return c.fetch(ctx, token, false)
}

// Refresh re-fetches the list while keeping stale data visible
func (c *BotList) Refresh(ctx context.Context, token string) (BotListState, error) {
	return c.fetch(ctx, token, true)
}

func (c *BotList) fetch(ctx context.Context, token string, refresh bool) (BotListState, error) {
	c.mu.Lock()
	fctx, gen := c.gate.open(ctx)
	c.state.begin(refresh)
	c.mu.Unlock()

	bots, err := c.api.ListBots(fctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gate.current(gen) {
		// Superseded by a newer fetch; its result owns the state.
		return c.snapshotLocked(), nil
	}

	c.state.settle()

	if err != nil {
		c.log.Error("failed to load bot list", err)
		c.state.err = fetchErrorMessage(err)
		return c.snapshotLocked(), err
	}

	c.bots = model.SortBots(bots)
	c.state.err = ""
	c.state.loaded = true
	return c.snapshotLocked(), nil
}

// Find returns one bot by id, loading the list first when needed. An id
// absent from an already loaded list triggers one refetch, so a bot
// created upstream after the last load is still found.
func (c *BotList) Find(ctx context.Context, token string, id int64) (tradeapi.Bot, bool, error) {
	c.mu.Lock()
	loaded := c.state.loaded
	c.mu.Unlock()

	if !loaded {
		if _, err := c.Load(ctx, token); err != nil {
			return tradeapi.Bot{}, false, err
		}
		bot, found := c.lookup(id)
		return bot, found, nil
	}

	if bot, found := c.lookup(id); found {
		return bot, true, nil
	}

	if _, err := c.Refresh(ctx, token); err != nil {
		return tradeapi.Bot{}, false, err
	}
	bot, found := c.lookup(id)
	return bot, found, nil
}

func (c *BotList) lookup(id int64) (tradeapi.Bot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.bots {
		if b.ID == id {
			return b, true
		}
	}
	return tradeapi.Bot{}, false
}

// Summaries returns the compact list the sidebar feed consumes
func (c *BotList) Summaries(ctx context.Context, token string) ([]model.BotSummary, error) {
	c.mu.Lock()
	loaded := c.state.loaded
	c.mu.Unlock()

	if !loaded {
		if _, err := c.Load(ctx, token); err != nil {
			return nil, err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	summaries := make([]model.BotSummary, 0, len(c.bots))
	for _, b := range c.bots {
		summaries = append(summaries, model.NewBotSummary(b))
	}
	return summaries, nil
}

// Close cancels any in-flight fetch
func (c *BotList) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate.close()
}

func (c *BotList) snapshotLocked() BotListState {
	views := make([]model.BotView, 0, len(c.bots))
	for _, b := range c.bots {
		views = append(views, model.NewBotView(b))
	}
	return BotListState{
		Bots:       views,
		Loading:    c.state.loading,
		Refreshing: c.state.refreshing,
		Error:      c.state.err,
	}
}
