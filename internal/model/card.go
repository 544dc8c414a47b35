package model

import (
	"botdash/gateway/pkg/tradeapi"
)

// BotCard is the enriched per-bot view: the bot plus its holdings, trade
// history and the derived metrics the card renders.
type BotCard struct {
	Bot           BotView          `json:"bot"`
	Assets        []tradeapi.Asset `json:"assets"`
	Trades        []tradeapi.Trade `json:"trades"`
	CurrentValue  float64          `json:"currentValue"`
	Profit        float64          `json:"profit"`
	ProfitPercent float64          `json:"profitPercent"`
	SuccessRate   float64          `json:"successRate"`
	TradeCount    int              `json:"tradeCount"`
}

// BuildBotCard reconciles a bot with its fetched trades into the card
// view. When the bot carries an assets array it is used verbatim;
// otherwise a single placeholder asset is synthesized from the current
// coin and manual budget, so derived values never operate on missing data.
func BuildBotCard(bot tradeapi.Bot, trades []tradeapi.Trade) BotCard {
	if trades == nil {
		trades = []tradeapi.Trade{}
	}

	assets := bot.Assets
	if len(assets) == 0 {
		assets = []tradeapi.Asset{PlaceholderAsset(bot.CurrentCoin, bot.ManualBudgetAmount)}
	}

	currentValue := CurrentValue(assets)
	profit, profitPct := Profit(currentValue, bot.ManualBudgetAmount)

	return BotCard{
		Bot:           NewBotView(bot),
		Assets:        assets,
		Trades:        trades,
		CurrentValue:  currentValue,
		Profit:        profit,
		ProfitPercent: profitPct,
		SuccessRate:   SuccessRate(trades),
		TradeCount:    len(trades),
	}
}

// PlaceholderAsset synthesizes a holding when the API omits assets data.
// Stablecoins are priced at exactly 1.0; any other coin is priced at
// budget/10, which makes the amount exactly 10 for a non-zero budget.
// This is a documented approximation, not a price feed. A zero budget
// yields a zeroed asset rather than a division by zero.
func PlaceholderAsset(coin string, budget float64) tradeapi.Asset {
	if tradeapi.IsStablecoin(coin) {
		return tradeapi.Asset{
			Coin:          coin,
			Amount:        budget,
			USDTValue:     budget,
			RealTimePrice: 1,
		}
	}

	if budget == 0 {
		return tradeapi.Asset{Coin: coin}
	}

	price := budget / 10
	return tradeapi.Asset{
		Coin:          coin,
		Amount:        budget / price,
		USDTValue:     budget,
		RealTimePrice: price,
	}
}

// CurrentValue sums holdings in USDT. The reported usdtValue is trusted
// when present; otherwise it falls back to amount times real-time price.
func CurrentValue(assets []tradeapi.Asset) float64 {
	var total float64
	for _, a := range assets {
		if a.USDTValue != 0 {
			total += a.USDTValue
			continue
		}
		total += a.Amount * a.RealTimePrice
	}
	return total
}

// Profit derives absolute and percentage profit against the budget.
// Percentage is 0 when the budget is 0 or unset.
func Profit(currentValue, budget float64) (profit, profitPercent float64) {
	profit = currentValue - budget
	if budget == 0 {
		return profit, 0
	}
	return profit, profit / budget * 100
}

// SuccessRate is the percentage of trades with status exactly "completed".
// An empty trade set yields 0.
func SuccessRate(trades []tradeapi.Trade) float64 {
	if len(trades) == 0 {
		return 0
	}

	var completed int
	for _, t := range trades {
		if t.IsCompleted() {
			completed++
		}
	}
	return float64(completed) / float64(len(trades)) * 100
}
