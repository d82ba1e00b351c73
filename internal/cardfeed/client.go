package cardfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shahmubaruk05/wallet-exchange/internal/domain"

	"github.com/shopspring/decimal"
)

// Client proxies the third-party card-transactions API. Read-only; the
// ledger never depends on its availability.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ListTransactions(ctx context.Context, cardholderID string) ([]domain.CardTransaction, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("card feed not configured")
	}

	endpoint := fmt.Sprintf("%s/transactions?cardholder=%s", c.baseURL, url.QueryEscape(cardholderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("card feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("card feed returned status %d", resp.StatusCode)
	}

	var out []domain.CardTransaction
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("card feed decode failed: %w", err)
	}
	return out, nil
}

// DemoTransactions is the fixed dataset shown when the feed is down or
// returns nothing. Substitution happens at the handler, not in the
// ledger.
func DemoTransactions() []domain.CardTransaction {
	base := time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC)
	return []domain.CardTransaction{
		{ID: "demo-001", Date: base, Merchant: "Netflix", Amount: decimal.RequireFromString("15.49"), Currency: domain.CurrencyUSD, Status: "Settled"},
		{ID: "demo-002", Date: base.AddDate(0, 0, 3), Merchant: "Amazon", Amount: decimal.RequireFromString("42.80"), Currency: domain.CurrencyUSD, Status: "Settled"},
		{ID: "demo-003", Date: base.AddDate(0, 0, 7), Merchant: "Spotify", Amount: decimal.RequireFromString("9.99"), Currency: domain.CurrencyUSD, Status: "Settled"},
		{ID: "demo-004", Date: base.AddDate(0, 0, 12), Merchant: "Upwork", Amount: decimal.RequireFromString("120.00"), Currency: domain.CurrencyUSD, Status: "Pending"},
	}
}
