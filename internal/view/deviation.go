package view

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"botdash/gateway/internal/model"
	"botdash/gateway/pkg/tradeapi"
)

// historyCap is the number of calculator results retained, oldest evicted
const historyCap = 10

// Calculator input errors, raised before any network call
var (
	ErrInvalidPrice     = errors.New("prices must be positive numbers")
	ErrIncompletePrices = errors.New("enter both prices or neither")
	ErrPriceUnavailable = errors.New("price data unavailable")
)

// CalcRequest is the manual deviation calculator input. Prices arrive as
// strings straight from the form; empty strings mean "fetch them for me".
type CalcRequest struct {
	FromCoin  string `json:"fromCoin" binding:"required"`
	ToCoin    string `json:"toCoin" binding:"required"`
	FromPrice string `json:"fromPrice"`
	ToPrice   string `json:"toPrice"`
}

// Calculator is the manual price-deviation calculator. The "current"
// ratio it reports is the base ratio under a uniform random factor in
// [0.95, 1.05] simulating market movement; the formula is preserved for
// compatibility and is not a pricing model.
type Calculator struct {
	api *tradeapi.Client

	mu      sync.Mutex
	rng     *rand.Rand
	history []model.DeviationEntry
}

// NewCalculator creates a deviation calculator. A nil rng falls back to a
// time-seeded source; tests inject a fixed seed.
func NewCalculator(api *tradeapi.Client, rng *rand.Rand) *Calculator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Calculator{api: api, rng: rng}
}

// Calculate runs one deviation computation and appends it to the history
func (c *Calculator) Calculate(ctx context.Context, token string, req CalcRequest) (model.DeviationEntry, error) {
	manual := req.FromPrice != "" || req.ToPrice != ""
	if manual && (req.FromPrice == "" || req.ToPrice == "") {
		return model.DeviationEntry{}, ErrIncompletePrices
	}

	var fromPrice, toPrice float64
	if manual {
		var err error
		fromPrice, err = parsePrice(req.FromPrice)
		if err != nil {
			return model.DeviationEntry{}, err
		}
		toPrice, err = parsePrice(req.ToPrice)
		if err != nil {
			return model.DeviationEntry{}, err
		}
	} else {
		fromPrice = c.api.GetCoinPrice(ctx, token, req.FromCoin)
		toPrice = c.api.GetCoinPrice(ctx, token, req.ToCoin)
		if fromPrice <= 0 || toPrice <= 0 {
			return model.DeviationEntry{}, ErrPriceUnavailable
		}
	}

	base := fromPrice / toPrice

	c.mu.Lock()
	defer c.mu.Unlock()

	jitter := 0.95 + c.rng.Float64()*0.1
	current := base * jitter
	deviation := round2((current - base) / base * 100)

	entry := model.DeviationEntry{
		FromCoin:     req.FromCoin,
		ToCoin:       req.ToCoin,
		FromPrice:    fromPrice,
		ToPrice:      toPrice,
		BaseRatio:    base,
		CurrentRatio: current,
		Deviation:    deviation,
		Manual:       manual,
		Timestamp:    time.Now().UTC(),
	}

	c.history = append(c.history, entry)
	if len(c.history) > historyCap {
		c.history = c.history[len(c.history)-historyCap:]
	}

	return entry, nil
}

// History returns the retained calculations, most recent first
func (c *Calculator) History() []model.DeviationEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.DeviationEntry, len(c.history))
	for i, entry := range c.history {
		out[len(c.history)-1-i] = entry
	}
	return out
}

func parsePrice(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, ErrInvalidPrice
	}
	return v, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
