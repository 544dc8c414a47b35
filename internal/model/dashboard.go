package model

import (
	"fmt"
	"sort"

	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/tradeapi"
)

// Change direction constants for the portfolio header card
const (
	DirectionUp   = "up"
	DirectionDown = "down"
	DirectionFlat = "flat"
)

// AllocationSlice is one coin's share of the portfolio pie
type AllocationSlice struct {
	Coin    string  `json:"coin"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// DashboardView is the presentation-ready dashboard: formatted header
// cards plus the chart series, derived from one DashboardStats snapshot.
type DashboardView struct {
	TotalBots        string                    `json:"totalBots"`
	ActiveBots       string                    `json:"activeBots"`
	PortfolioValue   string                    `json:"portfolioValue"`
	PortfolioChange  string                    `json:"portfolioChange"`
	ChangeDirection  string                    `json:"changeDirection"`
	TotalTrades      int                       `json:"totalTrades"`
	SuccessRate      string                    `json:"successRate"`
	RecentTrades     []tradeapi.Trade          `json:"recentTrades"`
	AssetAllocation  []AllocationSlice         `json:"assetAllocation"`
	PortfolioHistory []tradeapi.PortfolioPoint `json:"portfolioHistory"`
}

// NewDashboardView derives the dashboard presentation from a stats snapshot
func NewDashboardView(stats *tradeapi.DashboardStats) DashboardView {
	direction := DirectionFlat
	switch {
	case stats.PortfolioChange > 0:
		direction = DirectionUp
	case stats.PortfolioChange < 0:
		direction = DirectionDown
	}

	recent := stats.RecentTrades
	if recent == nil {
		recent = []tradeapi.Trade{}
	}
	history := stats.PortfolioHistory
	if history == nil {
		history = []tradeapi.PortfolioPoint{}
	}

	return DashboardView{
		TotalBots:        fmt.Sprintf("%d", stats.TotalBots),
		ActiveBots:       fmt.Sprintf("%d of %d total", stats.ActiveBots, stats.TotalBots),
		PortfolioValue:   util.FormatUSD(stats.PortfolioValue),
		PortfolioChange:  util.FormatSignedPercent(stats.PortfolioChange),
		ChangeDirection:  direction,
		TotalTrades:      stats.TotalTrades,
		SuccessRate:      util.FormatPercent(stats.SuccessRate),
		RecentTrades:     recent,
		AssetAllocation:  AllocationSlices(stats.AssetAllocation),
		PortfolioHistory: history,
	}
}

// AllocationSlices turns the coin->value map into percentage slices, largest
// first. Percentages are 0 when the portfolio total is 0.
func AllocationSlices(allocation map[string]float64) []AllocationSlice {
	slices := make([]AllocationSlice, 0, len(allocation))

	var total float64
	for _, value := range allocation {
		total += value
	}

	for coin, value := range allocation {
		slice := AllocationSlice{Coin: coin, Value: value}
		if total != 0 {
			slice.Percent = value / total * 100
		}
		slices = append(slices, slice)
	}

	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}
		return slices[i].Coin < slices[j].Coin
	})

	return slices
}
