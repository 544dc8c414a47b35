package view

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"botdash/gateway/pkg/tradeapi"
)

const statsFixture = `{
	"totalBots": 5,
	"activeBots": 3,
	"portfolioValue": 10000,
	"portfolioChange": 2.5,
	"totalTrades": 42,
	"successRate": 85,
	"recentTrades": [],
	"assetAllocation": {"BTC": 7000, "USDT": 3000},
	"portfolioHistory": [{"date": "2026-08-27", "value": 9800}]
}`

func newStatsUpstream(t *testing.T) (*httptest.Server, *atomic.Bool) {
	t.Helper()
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		if r.URL.Path == "/api/dashboard/stats" {
			fmt.Fprint(w, statsFixture)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv, &fail
}

func TestDashboardLoad(t *testing.T) {
	srv, _ := newStatsUpstream(t)
	dash := NewDashboard(tradeapi.NewClient(srv.URL, nil), nil)

	state, err := dash.Load(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.View == nil {
		t.Fatal("view is nil after successful load")
	}
	if state.View.TotalBots != "5" || state.View.ActiveBots != "3 of 5 total" {
		t.Errorf("header cards = %q / %q", state.View.TotalBots, state.View.ActiveBots)
	}
	if state.View.PortfolioValue != "$10,000.00" || state.View.PortfolioChange != "+2.50%" {
		t.Errorf("portfolio cards = %q / %q", state.View.PortfolioValue, state.View.PortfolioChange)
	}
	if len(state.View.AssetAllocation) != 2 || state.View.AssetAllocation[0].Coin != "BTC" {
		t.Errorf("allocation = %+v, want BTC first", state.View.AssetAllocation)
	}
}

func TestDashboardFailureKeepsStaleView(t *testing.T) {
	srv, fail := newStatsUpstream(t)
	dash := NewDashboard(tradeapi.NewClient(srv.URL, nil), nil)

	if _, err := dash.Load(context.Background(), "tok"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fail.Store(true)
	state, err := dash.Refresh(context.Background(), "tok")
	if err == nil {
		t.Fatal("Refresh returned nil error for a failing upstream")
	}
	if state.View == nil {
		t.Fatal("stale view dropped on failed refresh")
	}
	if state.View.PortfolioValue != "$10,000.00" {
		t.Errorf("stale portfolioValue = %q", state.View.PortfolioValue)
	}
	if state.Error == "" {
		t.Error("failed refresh left no error message")
	}
}

func TestDashboardRejectsInvalidPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// More active bots than bots cannot be rendered truthfully
		fmt.Fprint(w, `{"totalBots": 2, "activeBots": 5}`)
	}))
	t.Cleanup(srv.Close)

	dash := NewDashboard(tradeapi.NewClient(srv.URL, nil), nil)
	state, err := dash.Load(context.Background(), "tok")
	if err == nil {
		t.Fatal("Load accepted an inconsistent payload")
	}
	if state.View != nil {
		t.Error("invalid payload committed to view state")
	}
}
