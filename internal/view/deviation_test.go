package view

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"

	"botdash/gateway/pkg/tradeapi"
)

func TestCalculateManualDeterministic(t *testing.T) {
	calc := NewCalculator(nil, rand.New(rand.NewSource(42)))

	entry, err := calc.Calculate(context.Background(), "tok", CalcRequest{
		FromCoin:  "BTC",
		ToCoin:    "ETH",
		FromPrice: "100",
		ToPrice:   "50",
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if !close2(entry.BaseRatio, 2) {
		t.Errorf("baseRatio = %v, want 2", entry.BaseRatio)
	}

	// Same seed, same jitter, same result
	jitter := 0.95 + rand.New(rand.NewSource(42)).Float64()*0.1
	wantDeviation := math.Round((jitter-1)*100*100) / 100
	if entry.Deviation != wantDeviation {
		t.Errorf("deviation = %v, want %v", entry.Deviation, wantDeviation)
	}
	if !close2(entry.CurrentRatio, 2*jitter) {
		t.Errorf("currentRatio = %v, want %v", entry.CurrentRatio, 2*jitter)
	}
	if !entry.Manual {
		t.Error("entry not marked manual")
	}
}

func TestCalculateDeviationBounds(t *testing.T) {
	calc := NewCalculator(nil, rand.New(rand.NewSource(7)))

	// The jitter is uniform in [0.95, 1.05], so the deviation always lands
	// in [-5, 5] regardless of the ratio.
	for i := 0; i < 200; i++ {
		entry, err := calc.Calculate(context.Background(), "tok", CalcRequest{
			FromCoin:  "BTC",
			ToCoin:    "ETH",
			FromPrice: fmt.Sprintf("%d", 100+i),
			ToPrice:   "40",
		})
		if err != nil {
			t.Fatalf("Calculate: %v", err)
		}
		if entry.Deviation < -5 || entry.Deviation > 5 {
			t.Fatalf("deviation %v out of [-5, 5]", entry.Deviation)
		}
		if entry.Deviation != math.Round(entry.Deviation*100)/100 {
			t.Fatalf("deviation %v not rounded to 2 decimals", entry.Deviation)
		}
	}
}

func TestCalculateHistoryCap(t *testing.T) {
	calc := NewCalculator(nil, rand.New(rand.NewSource(1)))

	for i := 1; i <= 12; i++ {
		_, err := calc.Calculate(context.Background(), "tok", CalcRequest{
			FromCoin:  "BTC",
			ToCoin:    "ETH",
			FromPrice: fmt.Sprintf("%d", i),
			ToPrice:   "1",
		})
		if err != nil {
			t.Fatalf("Calculate %d: %v", i, err)
		}
	}

	history := calc.History()
	if len(history) != 10 {
		t.Fatalf("history length = %d, want 10", len(history))
	}
	// Most recent first; entries 1 and 2 evicted
	if !close2(history[0].FromPrice, 12) {
		t.Errorf("newest entry fromPrice = %v, want 12", history[0].FromPrice)
	}
	if !close2(history[9].FromPrice, 3) {
		t.Errorf("oldest retained fromPrice = %v, want 3", history[9].FromPrice)
	}
}

func TestCalculateValidation(t *testing.T) {
	calc := NewCalculator(nil, rand.New(rand.NewSource(1)))

	tests := []struct {
		name    string
		req     CalcRequest
		wantErr error
	}{
		{"non-numeric", CalcRequest{FromCoin: "BTC", ToCoin: "ETH", FromPrice: "abc", ToPrice: "50"}, ErrInvalidPrice},
		{"negative", CalcRequest{FromCoin: "BTC", ToCoin: "ETH", FromPrice: "-1", ToPrice: "50"}, ErrInvalidPrice},
		{"zero divisor", CalcRequest{FromCoin: "BTC", ToCoin: "ETH", FromPrice: "100", ToPrice: "0"}, ErrInvalidPrice},
		{"half entered", CalcRequest{FromCoin: "BTC", ToCoin: "ETH", FromPrice: "100"}, ErrIncompletePrices},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Calculate(context.Background(), "tok", tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if len(calc.History()) != 0 {
		t.Error("rejected inputs must not reach the history")
	}
}

func TestCalculateFetchedPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/prices/BTC":
			fmt.Fprint(w, `{"coin":"BTC","price":60000}`)
		case "/api/prices/ETH":
			fmt.Fprint(w, `{"coin":"ETH","price":3000}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	calc := NewCalculator(tradeapi.NewClient(srv.URL, nil), rand.New(rand.NewSource(3)))

	entry, err := calc.Calculate(context.Background(), "tok", CalcRequest{FromCoin: "BTC", ToCoin: "ETH"})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !close2(entry.BaseRatio, 20) {
		t.Errorf("baseRatio = %v, want 20", entry.BaseRatio)
	}
	if entry.Manual {
		t.Error("fetched-price entry marked manual")
	}
}

func TestCalculatePriceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	calc := NewCalculator(tradeapi.NewClient(srv.URL, nil), rand.New(rand.NewSource(3)))

	_, err := calc.Calculate(context.Background(), "tok", CalcRequest{FromCoin: "BTC", ToCoin: "ETH"})
	if !errors.Is(err, ErrPriceUnavailable) {
		t.Errorf("err = %v, want ErrPriceUnavailable", err)
	}
}

func close2(got, want float64) bool {
	return math.Abs(got-want) < 1e-9
}
