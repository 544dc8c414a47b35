package view

import (
	"context"
	"errors"

	"botdash/gateway/pkg/tradeapi"
)

// fetchState is the lifecycle every screen controller owns: loading for
// the first fetch, refreshing for manual re-fetches that keep stale data
// visible, and a persistent human-readable error. A failed fetch leaves
// previously loaded data untouched.
type fetchState struct {
	loading    bool
	refreshing bool
	err        string
	loaded     bool
}

// begin marks a fetch as started. Only the first load shows the loading
// state; refreshes keep stale data on screen.
func (s *fetchState) begin(refresh bool) {
	if refresh && s.loaded {
		s.refreshing = true
		return
	}
	s.loading = true
}

// settle clears the transient flags regardless of outcome
func (s *fetchState) settle() {
	s.loading = false
	s.refreshing = false
}

// gate fences overlapping fetches on one controller: starting a new fetch
// cancels the previous in-flight context, and results from superseded
// generations are discarded instead of overwriting newer state.
type gate struct {
	cancel context.CancelFunc
	gen    uint64
}

// open cancels any in-flight fetch and returns a context plus generation
// number for the new one. The caller must hold the controller mutex.
func (g *gate) open(ctx context.Context) (context.Context, uint64) {
	if g.cancel != nil {
		g.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.gen++
	return ctx, g.gen
}

// current reports whether gen is still the newest fetch
func (g *gate) current(gen uint64) bool {
	return g.gen == gen
}

// close cancels any in-flight fetch. Called when the owning view is torn down.
func (g *gate) close() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
}

// fetchErrorMessage converts a fetch failure into the inline banner text.
// The raw error is logged by the caller; the message stays human-readable.
func fetchErrorMessage(err error) string {
	if errors.Is(err, tradeapi.ErrUnauthorized) {
		return "Session expired, please sign in again"
	}
	if apiErr, ok := tradeapi.IsAPIError(err); ok {
		return apiErr.Error()
	}
	return "Failed to reach the trading API"
}
