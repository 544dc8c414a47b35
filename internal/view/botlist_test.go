package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"botdash/gateway/pkg/tradeapi"
)

// upstream is a scriptable fake trading API
type upstream struct {
	*httptest.Server
	fail   atomic.Bool
	reject atomic.Bool
}

func newUpstream(t *testing.T, botsJSON string) *upstream {
	t.Helper()
	u := &upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u.reject.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if u.fail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"detail":"database exploded"}`)
			return
		}
		if r.URL.Path == "/api/bots" {
			fmt.Fprint(w, botsJSON)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(u.Close)
	return u
}

const botsFixture = `[
	{"id":1,"name":"zeta","enabled":false,"currentCoin":"BTC","manualBudgetAmount":100},
	{"id":2,"name":"Alpha","enabled":true,"currentCoin":"ETH","manualBudgetAmount":200},
	{"id":3,"name":"beta","enabled":true,"currentCoin":"USDT","manualBudgetAmount":300}
]`

func TestBotListLoadSortsBots(t *testing.T) {
	u := newUpstream(t, botsFixture)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	state, err := list.Load(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantNames := []string{"Alpha", "beta", "zeta"}
	if len(state.Bots) != len(wantNames) {
		t.Fatalf("got %d bots, want %d", len(state.Bots), len(wantNames))
	}
	for i, want := range wantNames {
		if state.Bots[i].Name != want {
			t.Errorf("position %d: got %q, want %q", i, state.Bots[i].Name, want)
		}
	}
	if state.Error != "" || state.Loading || state.Refreshing {
		t.Errorf("settled state = %+v, want clean", state)
	}
}

func TestBotListFailureKeepsStaleData(t *testing.T) {
	u := newUpstream(t, botsFixture)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	if _, err := list.Load(context.Background(), "tok"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	u.fail.Store(true)
	state, err := list.Refresh(context.Background(), "tok")
	if err == nil {
		t.Fatal("Refresh returned nil error for a failing upstream")
	}

	if len(state.Bots) != 3 {
		t.Errorf("got %d bots after failed refresh, want the 3 stale ones", len(state.Bots))
	}
	if state.Error != "database exploded" {
		t.Errorf("error = %q, want the upstream detail", state.Error)
	}
}

func TestBotListFirstLoadFailure(t *testing.T) {
	u := newUpstream(t, botsFixture)
	u.fail.Store(true)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	state, err := list.Load(context.Background(), "tok")
	if err == nil {
		t.Fatal("Load returned nil error for a failing upstream")
	}
	if len(state.Bots) != 0 {
		t.Errorf("got %d bots on first-load failure, want 0", len(state.Bots))
	}
	if state.Error == "" {
		t.Error("first-load failure left no error message")
	}
}

func TestBotListRecoversAfterFailure(t *testing.T) {
	u := newUpstream(t, botsFixture)
	u.fail.Store(true)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	if _, err := list.Load(context.Background(), "tok"); err == nil {
		t.Fatal("expected first load to fail")
	}

	u.fail.Store(false)
	state, err := list.Load(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Load after recovery: %v", err)
	}
	if state.Error != "" {
		t.Errorf("error = %q after successful load, want empty", state.Error)
	}
	if len(state.Bots) != 3 {
		t.Errorf("got %d bots, want 3", len(state.Bots))
	}
}

func TestBotListUnauthorized(t *testing.T) {
	u := newUpstream(t, botsFixture)
	u.reject.Store(true)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	_, err := list.Load(context.Background(), "tok")
	if !errors.Is(err, tradeapi.ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestBotListFind(t *testing.T) {
	u := newUpstream(t, botsFixture)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	bot, found, err := list.Find(context.Background(), "tok", 2)
	if err != nil || !found {
		t.Fatalf("Find: found=%v err=%v", found, err)
	}
	if bot.Name != "Alpha" {
		t.Errorf("bot name = %q, want Alpha", bot.Name)
	}

	_, found, err = list.Find(context.Background(), "tok", 99)
	if err != nil {
		t.Fatalf("Find missing: %v", err)
	}
	if found {
		t.Error("Find reported a bot that does not exist")
	}
}

func TestBotListFindRefetchesNewBot(t *testing.T) {
	var botsJSON atomic.Value
	botsJSON.Store(`[{"id":1,"name":"alpha","enabled":true}]`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, botsJSON.Load().(string))
	}))
	t.Cleanup(srv.Close)

	list := NewBotList(tradeapi.NewClient(srv.URL, nil), nil)
	if _, err := list.Load(context.Background(), "tok"); err != nil {
		t.Fatalf("Load: %v", err)
	}

	// A bot created upstream after the load must be findable without a
	// manual list refresh.
	botsJSON.Store(`[{"id":1,"name":"alpha","enabled":true},{"id":2,"name":"newbie","enabled":true}]`)

	bot, found, err := list.Find(context.Background(), "tok", 2)
	if err != nil || !found {
		t.Fatalf("Find: found=%v err=%v", found, err)
	}
	if bot.Name != "newbie" {
		t.Errorf("bot name = %q, want newbie", bot.Name)
	}

	state, err := list.Load(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(state.Bots) != 2 {
		t.Errorf("list has %d bots after refetch, want 2", len(state.Bots))
	}
}

func TestBotListSummaries(t *testing.T) {
	u := newUpstream(t, botsFixture)
	list := NewBotList(tradeapi.NewClient(u.URL, nil), nil)

	summaries, err := list.Summaries(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Summaries: %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}
	// Sidebar feed keeps the display order
	if summaries[0].Name != "Alpha" || !summaries[0].Enabled {
		t.Errorf("first summary = %+v, want enabled Alpha", summaries[0])
	}
	if summaries[2].Name != "zeta" || summaries[2].Status != tradeapi.BotStatusInactive {
		t.Errorf("last summary = %+v, want inactive zeta", summaries[2])
	}
}
