package model

import (
	"sort"
	"strings"

	"botdash/gateway/pkg/tradeapi"
)

// BotView is the presentation shape of a bot in the "All Bots" list.
// Status is always the derived effective status, never the raw upstream
// field, so every screen agrees on what "active" means.
type BotView struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Enabled              bool     `json:"enabled"`
	Status               string   `json:"status"`
	CurrentCoin          string   `json:"currentCoin"`
	Coins                []string `json:"coins"`
	ManualBudgetAmount   float64  `json:"manualBudgetAmount"`
	TakeProfitPercentage float64  `json:"takeProfitPercentage"`
	Performance          float64  `json:"performance"`
}

// NewBotView derives the presentation shape from the raw entity
func NewBotView(b tradeapi.Bot) BotView {
	return BotView{
		ID:                   b.ID,
		Name:                 b.Name,
		Enabled:              b.Enabled,
		Status:               b.EffectiveStatus(),
		CurrentCoin:          b.CurrentCoin,
		Coins:                b.Coins,
		ManualBudgetAmount:   b.ManualBudgetAmount,
		TakeProfitPercentage: b.TakeProfitPercentage,
		Performance:          b.Performance,
	}
}

// BotSummary is the compact shape the sidebar feed consumes
type BotSummary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"`
}

// NewBotSummary derives the sidebar shape from the raw entity
func NewBotSummary(b tradeapi.Bot) BotSummary {
	return BotSummary{
		ID:      b.ID,
		Name:    b.Name,
		Enabled: b.Enabled,
		Status:  b.EffectiveStatus(),
	}
}

// SortBots orders bots for display: enabled bots first, ties broken by
// case-aware lexicographic name. The sort is stable and pure; it returns
// a new slice and is re-applied on every fetch.
func SortBots(bots []tradeapi.Bot) []tradeapi.Bot {
	sorted := make([]tradeapi.Bot, len(bots))
	copy(sorted, bots)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Enabled != sorted[j].Enabled {
			return sorted[i].Enabled
		}
		return CompareNames(sorted[i].Name, sorted[j].Name) < 0
	})

	return sorted
}

// CompareNames compares bot names case-insensitively, with a
// case-sensitive tiebreak so equal-folded names still order
// deterministically.
func CompareNames(a, b string) int {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la != lb {
		return strings.Compare(la, lb)
	}
	return strings.Compare(a, b)
}
