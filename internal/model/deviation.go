package model

import "time"

// DeviationEntry is one manual deviation calculation. The current ratio
// carries the demo jitter; the math is preserved for compatibility only
// and is not a pricing model.
type DeviationEntry struct {
	FromCoin     string    `json:"fromCoin"`
	ToCoin       string    `json:"toCoin"`
	FromPrice    float64   `json:"fromPrice"`
	ToPrice      float64   `json:"toPrice"`
	BaseRatio    float64   `json:"baseRatio"`
	CurrentRatio float64   `json:"currentRatio"`
	Deviation    float64   `json:"deviation"`
	Manual       bool      `json:"manual"`
	Timestamp    time.Time `json:"timestamp"`
}
