package tradeapi

import (
	"fmt"
	"math"
	"time"
)

// Trade status constants
const (
	TradeStatusPending   = "pending"
	TradeStatusCompleted = "completed"
	TradeStatusFailed    = "failed"
)

// Bot status constants. Enabled is the canonical activity signal; Status
// is whatever the upstream last reported and may lag behind it.
const (
	BotStatusActive   = "active"
	BotStatusInactive = "inactive"
)

// Stablecoins are priced at exactly 1.0 when synthesizing placeholder assets
var stablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
}

// IsStablecoin reports whether coin is treated as pegged to 1 USDT
func IsStablecoin(coin string) bool {
	return stablecoins[coin]
}

// Bot represents a server-managed trading bot
type Bot struct {
	ID                   int64    `json:"id"`
	Name                 string   `json:"name"`
	Enabled              bool     `json:"enabled"`
	Status               string   `json:"status,omitempty"`
	CurrentCoin          string   `json:"currentCoin"`
	Coins                []string `json:"coins"`
	ManualBudgetAmount   float64  `json:"manualBudgetAmount"`
	TakeProfitPercentage float64  `json:"takeProfitPercentage"`
	Performance          float64  `json:"performance"`
	Assets               []Asset  `json:"assets,omitempty"`
}

// EffectiveStatus derives the display status from the canonical Enabled
// flag. Upstream Status is only trusted for enabled bots.
func (b *Bot) EffectiveStatus() string {
	if !b.Enabled {
		return BotStatusInactive
	}
	if b.Status != "" {
		return b.Status
	}
	return BotStatusActive
}

// Validate checks the decoded payload at the boundary
func (b *Bot) Validate() error {
	if b.ID <= 0 {
		return fmt.Errorf("bot has invalid id %d", b.ID)
	}
	if b.Name == "" {
		return fmt.Errorf("bot %d has empty name", b.ID)
	}
	if !isFinite(b.ManualBudgetAmount) {
		return fmt.Errorf("bot %d has non-finite budget", b.ID)
	}
	return nil
}

// Trade represents a single executed or attempted swap. Immutable once
// fetched.
type Trade struct {
	ID        int64     `json:"id"`
	BotID     int64     `json:"botId"`
	FromCoin  string    `json:"fromCoin"`
	ToCoin    string    `json:"toCoin"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// IsCompleted reports whether the trade counts toward the success rate.
// Only the exact status "completed" counts.
func (t *Trade) IsCompleted() bool {
	return t.Status == TradeStatusCompleted
}

// Asset represents a bot's current holding of one coin
type Asset struct {
	Coin          string  `json:"coin"`
	Amount        float64 `json:"amount"`
	USDTValue     float64 `json:"usdtValue"`
	RealTimePrice float64 `json:"realTimePrice"`
}

// PortfolioPoint is one sample of total portfolio value over time
type PortfolioPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// DashboardStats is the consolidated dashboard read model, fetched in a
// single call so the client never joins per-bot data itself.
type DashboardStats struct {
	TotalBots        int                `json:"totalBots"`
	ActiveBots       int                `json:"activeBots"`
	PortfolioValue   float64            `json:"portfolioValue"`
	PortfolioChange  float64            `json:"portfolioChange"`
	TotalTrades      int                `json:"totalTrades"`
	SuccessRate      float64            `json:"successRate"`
	RecentTrades     []Trade            `json:"recentTrades"`
	AssetAllocation  map[string]float64 `json:"assetAllocation"`
	PortfolioHistory []PortfolioPoint   `json:"portfolioHistory"`
}

// Validate checks the decoded payload at the boundary
func (s *DashboardStats) Validate() error {
	if s.TotalBots < 0 || s.ActiveBots < 0 || s.TotalTrades < 0 {
		return fmt.Errorf("dashboard stats contain negative counts")
	}
	if s.ActiveBots > s.TotalBots {
		return fmt.Errorf("dashboard stats report %d active of %d total bots", s.ActiveBots, s.TotalBots)
	}
	if !isFinite(s.PortfolioValue) || !isFinite(s.PortfolioChange) || !isFinite(s.SuccessRate) {
		return fmt.Errorf("dashboard stats contain non-finite values")
	}
	return nil
}

// BotState is the authoritative run state of a bot
type BotState struct {
	BotID       int64     `json:"botId"`
	Status      string    `json:"status"`
	Enabled     bool      `json:"enabled"`
	CurrentCoin string    `json:"currentCoin"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CoinPrice is the spot price of one coin in USDT
type CoinPrice struct {
	Coin  string  `json:"coin"`
	Price float64 `json:"price"`
}

// PerformancePoint is one sample of a bot's performance series
type PerformancePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// LogEntry is one line of a bot's activity log
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Decision is a recorded trade or swap decision with its reasoning
type Decision struct {
	Timestamp time.Time `json:"timestamp"`
	FromCoin  string    `json:"fromCoin"`
	ToCoin    string    `json:"toCoin"`
	Reason    string    `json:"reason"`
	Executed  bool      `json:"executed"`
}

// DeviationRecord is a server-computed price deviation for a bot's pair
type DeviationRecord struct {
	FromCoin     string    `json:"fromCoin"`
	ToCoin       string    `json:"toCoin"`
	BaseRatio    float64   `json:"baseRatio"`
	CurrentRatio float64   `json:"currentRatio"`
	DeviationPct float64   `json:"deviationPct"`
	Timestamp    time.Time `json:"timestamp"`
}

// SnapshotPoint is one sample of an expected-vs-actual comparison series
type SnapshotPoint struct {
	Date     string  `json:"date"`
	Expected float64 `json:"expected"`
	Actual   float64 `json:"actual"`
}

// LoginResponse is the upstream auth response
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
