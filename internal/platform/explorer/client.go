package explorer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const requestTimeout = 10 * time.Second

// TokenTransfer is one ERC-20 style transfer reported by an Etherscan-family
// explorer. Amounts are normalized out of the explorer's stringly-typed
// smallest-unit representation.
type TokenTransfer struct {
	Hash      string
	From      string
	To        string
	Amount    decimal.Decimal
	Timestamp time.Time
	Decimals  int32
}

// TransferQuery selects the transfer history to fetch.
type TransferQuery struct {
	APIURL string
	// Address is the receiving wallet whose history is scanned.
	Address string
	// ContractAddress filters to one token; empty means all token transfers.
	ContractAddress string
	APIKey          string
}

// Client queries Etherscan-family explorer APIs (module=account,
// action=tokentx). Each supported network exposes the same wire shape at a
// different base URL.
type Client struct {
	http *http.Client
}

func New() *Client {
	return &Client{http: &http.Client{Timeout: requestTimeout}}
}

type rawTransfer struct {
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	TimeStamp    string `json:"timeStamp"`
	TokenDecimal string `json:"tokenDecimal"`
}

// TokenTransfers returns the wallet's recent token transfers, newest first
// (the explorer sorts for us via sort=desc).
func (c *Client) TokenTransfers(ctx context.Context, q TransferQuery) ([]TokenTransfer, error) {
	params := url.Values{}
	params.Set("module", "account")
	params.Set("action", "tokentx")
	params.Set("address", q.Address)
	if q.ContractAddress != "" {
		params.Set("contractaddress", q.ContractAddress)
	}
	params.Set("startblock", "0")
	params.Set("endblock", "latest")
	params.Set("sort", "desc")
	params.Set("apikey", q.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.APIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("explorer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer returned status %d", resp.StatusCode)
	}

	var out struct {
		Result []rawTransfer `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode explorer response: %w", err)
	}

	transfers := make([]TokenTransfer, 0, len(out.Result))
	for _, r := range out.Result {
		t, err := r.normalize()
		if err != nil {
			// A single malformed row should not poison the whole scan.
			continue
		}
		transfers = append(transfers, t)
	}
	return transfers, nil
}

func (r rawTransfer) normalize() (TokenTransfer, error) {
	value, err := decimal.NewFromString(r.Value)
	if err != nil {
		return TokenTransfer{}, fmt.Errorf("bad value %q: %w", r.Value, err)
	}
	ts, err := strconv.ParseInt(r.TimeStamp, 10, 64)
	if err != nil {
		return TokenTransfer{}, fmt.Errorf("bad timestamp %q: %w", r.TimeStamp, err)
	}
	dec, err := strconv.ParseInt(r.TokenDecimal, 10, 32)
	if err != nil {
		return TokenTransfer{}, fmt.Errorf("bad tokenDecimal %q: %w", r.TokenDecimal, err)
	}
	return TokenTransfer{
		Hash:      r.Hash,
		From:      r.From,
		To:        r.To,
		Amount:    value.Shift(int32(-dec)),
		Timestamp: time.Unix(ts, 0),
		Decimals:  int32(dec),
	}, nil
}
