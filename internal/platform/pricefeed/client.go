package pricefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const requestTimeout = 10 * time.Second

// AssetPrice is the per-asset payload of the simple price endpoint.
type AssetPrice struct {
	USD float64 `json:"usd"`
}

// Client is a thin CoinGecko-style price feed client. Responses are
// best-effort: callers are expected to fall back on any error.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// SimplePrice fetches USD rates for the given asset ids. A missing asset in
// the response is not an error; callers check presence per id.
func (c *Client) SimplePrice(ctx context.Context, ids []string) (map[string]AssetPrice, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", "usd")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("price feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price feed returned status %d", resp.StatusCode)
	}

	var out map[string]AssetPrice
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode price feed response: %w", err)
	}
	return out, nil
}
