package tradeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"botdash/gateway/pkg/logger"
)

// Client is a typed client for the remote trading API. Read endpoints that
// feed non-critical panels swallow failures and return empty defaults so a
// single failing panel never blanks a screen; endpoints whose failure must
// block the screen return the error.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a new trading API client
func NewClient(baseURL string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// do issues one request with the bearer token attached and decodes the
// JSON response into out. 401 maps to ErrUnauthorized; other non-2xx
// statuses map to an APIError carrying the upstream "detail" message.
func (c *Client) do(ctx context.Context, method, token, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(data, &errBody)
		return &APIError{StatusCode: resp.StatusCode, Detail: errBody.Detail}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

func (c *Client) get(ctx context.Context, token, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, token, path, nil, out)
}

// softGet fetches a secondary/enrichment endpoint. Failures are logged and
// swallowed; the caller's zero value stands in for the missing data.
func (c *Client) softGet(ctx context.Context, token, path string, out interface{}) bool {
	if err := c.get(ctx, token, path, out); err != nil {
		c.log.WithField("path", path).Warnf("secondary fetch failed: %v", err)
		return false
	}
	return true
}

// ListBots fetches all bots. Primary: failures propagate.
func (c *Client) ListBots(ctx context.Context, token string) ([]Bot, error) {
	var bots []Bot
	if err := c.get(ctx, token, "/api/bots", &bots); err != nil {
		return nil, err
	}
	for i := range bots {
		if err := bots[i].Validate(); err != nil {
			return nil, &APIError{StatusCode: http.StatusBadGateway, Detail: fmt.Sprintf("invalid bot payload: %v", err)}
		}
	}
	return bots, nil
}

// GetBotState fetches the authoritative run state of a bot. Primary.
func (c *Client) GetBotState(ctx context.Context, token string, botID int64) (*BotState, error) {
	var state BotState
	if err := c.get(ctx, token, fmt.Sprintf("/api/bots/%d/state", botID), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// GetDashboardStats fetches the consolidated dashboard snapshot. Primary.
func (c *Client) GetDashboardStats(ctx context.Context, token string) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.get(ctx, token, "/api/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	if err := stats.Validate(); err != nil {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Detail: fmt.Sprintf("invalid dashboard payload: %v", err)}
	}
	return &stats, nil
}

// GetBotDeviations fetches server-computed deviations for a bot. Primary.
func (c *Client) GetBotDeviations(ctx context.Context, token string, botID int64) ([]DeviationRecord, error) {
	var records []DeviationRecord
	if err := c.get(ctx, token, fmt.Sprintf("/api/deviations/bots/%d", botID), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetPriceComparison fetches the expected-vs-actual price snapshot series. Primary.
func (c *Client) GetPriceComparison(ctx context.Context, token string, botID int64) ([]SnapshotPoint, error) {
	var points []SnapshotPoint
	if err := c.get(ctx, token, fmt.Sprintf("/api/snapshots/bots/%d/price-comparison", botID), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetHistoricalComparison fetches the historical comparison series. Primary.
func (c *Client) GetHistoricalComparison(ctx context.Context, token string, botID int64) ([]SnapshotPoint, error) {
	var points []SnapshotPoint
	if err := c.get(ctx, token, fmt.Sprintf("/api/snapshots/bots/%d/historical-comparison", botID), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// GetBotTrades fetches a bot's trades. Secondary: returns an empty slice on failure.
func (c *Client) GetBotTrades(ctx context.Context, token string, botID int64) []Trade {
	var trades []Trade
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/trades", botID), &trades) || trades == nil {
		return []Trade{}
	}
	return trades
}

// GetBotAssets fetches a bot's holdings. Secondary: returns an empty slice on failure.
func (c *Client) GetBotAssets(ctx context.Context, token string, botID int64) []Asset {
	var assets []Asset
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/assets", botID), &assets) || assets == nil {
		return []Asset{}
	}
	return assets
}

// GetBotPrices fetches live prices for a bot's coins. Secondary.
func (c *Client) GetBotPrices(ctx context.Context, token string, botID int64) []CoinPrice {
	var prices []CoinPrice
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/prices", botID), &prices) || prices == nil {
		return []CoinPrice{}
	}
	return prices
}

// GetBotPerformance fetches a bot's performance series. Secondary.
func (c *Client) GetBotPerformance(ctx context.Context, token string, botID int64) []PerformancePoint {
	var points []PerformancePoint
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/performance", botID), &points) || points == nil {
		return []PerformancePoint{}
	}
	return points
}

// GetBotCoins fetches the coins a bot rotates through. Secondary.
func (c *Client) GetBotCoins(ctx context.Context, token string, botID int64) []string {
	var coins []string
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/coins", botID), &coins) || coins == nil {
		return []string{}
	}
	return coins
}

// GetBotLogs fetches a bot's activity log. Secondary.
func (c *Client) GetBotLogs(ctx context.Context, token string, botID int64) []LogEntry {
	var entries []LogEntry
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/logs", botID), &entries) || entries == nil {
		return []LogEntry{}
	}
	return entries
}

// GetBotTradeDecisions fetches a bot's recorded trade decisions. Secondary.
func (c *Client) GetBotTradeDecisions(ctx context.Context, token string, botID int64) []Decision {
	var decisions []Decision
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/trade-decisions", botID), &decisions) || decisions == nil {
		return []Decision{}
	}
	return decisions
}

// GetBotSwapDecisions fetches a bot's recorded swap decisions. Secondary.
func (c *Client) GetBotSwapDecisions(ctx context.Context, token string, botID int64) []Decision {
	var decisions []Decision
	if !c.softGet(ctx, token, fmt.Sprintf("/api/bots/%d/swap-decisions", botID), &decisions) || decisions == nil {
		return []Decision{}
	}
	return decisions
}

// GetCoinPrice fetches the spot price of one coin. Secondary: returns 0 on failure.
func (c *Client) GetCoinPrice(ctx context.Context, token, coin string) float64 {
	var price CoinPrice
	if !c.softGet(ctx, token, "/api/prices/"+coin, &price) {
		return 0
	}
	return price.Price
}

// Login authenticates against the upstream API and returns its bearer token
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "", "/api/auth/login", body, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{StatusCode: http.StatusBadGateway, Detail: "login response missing token"}
	}
	if resp.Username == "" {
		resp.Username = username
	}
	return &resp, nil
}

// ValidateToken checks that an upstream bearer token is still accepted
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	return c.get(ctx, token, "/api/auth/validate", nil)
}

// ForgotPassword requests a password reset email for the given address
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "", "/api/auth/forgot-password", body, nil)
}

// ResetPassword completes a password reset using the emailed token
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"password": newPassword}
	return c.do(ctx, http.MethodPost, "", "/api/auth/reset-password/"+resetToken, body, nil)
}
