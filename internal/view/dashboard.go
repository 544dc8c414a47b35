package view

import (
	"context"
	"sync"

	"botdash/gateway/internal/model"
	"botdash/gateway/pkg/logger"
	"botdash/gateway/pkg/tradeapi"
)

// DashboardState is what the dashboard screen renders. View is nil until
// the first successful load.
type DashboardState struct {
	View       *model.DashboardView `json:"view,omitempty"`
	Loading    bool                 `json:"loading"`
	Refreshing bool                 `json:"refreshing"`
	Error      string               `json:"error,omitempty"`
}

// Dashboard is the view-state controller for the dashboard screen. The
// stats aggregate arrives in one upstream call; this controller only
// derives the presentation from it.
type Dashboard struct {
	api *tradeapi.Client
	log *logger.Logger

	mu    sync.Mutex
	gate  gate
	state fetchState
	view  *model.DashboardView
}

// NewDashboard creates the dashboard controller
func NewDashboard(api *tradeapi.Client, log *logger.Logger) *Dashboard {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Dashboard{api: api, log: log}
}

// Load fetches the dashboard snapshot, showing the loading state on first load
func (c *Dashboard) Load(ctx context.Context, token string) (DashboardState, error) {
	return c.fetch(ctx, token, false)
}

// Refresh re-fetches the snapshot while keeping stale data visible
func (c *Dashboard) Refresh(ctx context.Context, token string) (DashboardState, error) {
	return c.fetch(ctx, token, true)
}

func (c *Dashboard) fetch(ctx context.Context, token string, refresh bool) (DashboardState, error) {
	c.mu.Lock()
	fctx, gen := c.gate.open(ctx)
	c.state.begin(refresh)
	c.mu.Unlock()

	stats, err := c.api.GetDashboardStats(fctx, token)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.gate.current(gen) {
		return c.snapshotLocked(), nil
	}

	c.state.settle()

	if err != nil {
		c.log.Error("failed to load dashboard stats", err)
		c.state.err = fetchErrorMessage(err)
		return c.snapshotLocked(), err
	}

	view := model.NewDashboardView(stats)
	c.view = &view
	c.state.err = ""
	c.state.loaded = true
	return c.snapshotLocked(), nil
}

// Close cancels any in-flight fetch
func (c *Dashboard) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate.close()
}

func (c *Dashboard) snapshotLocked() DashboardState {
	return DashboardState{
		View:       c.view,
		Loading:    c.state.loading,
		Refreshing: c.state.refreshing,
		Error:      c.state.err,
	}
}
