package arweave

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const requestTimeout = 15 * time.Second

// WinstonPerAR is the smallest-unit scale of the AR token.
const WinstonPerAR = 1_000_000_000_000

var txIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{43}$`)

// TxStatus is the confirmation state reported by the node.
type TxStatus struct {
	Confirmed     bool   `json:"confirmed"`
	BlockHeight   int64  `json:"block_height"`
	Confirmations int64  `json:"confirmations"`
	BlockHash     string `json:"block_hash"`
}

// Client talks to an Arweave node/gateway over its plain HTTP API.
type Client struct {
	nodeURL    string
	gatewayURL string
	http       *http.Client
}

func New(nodeURL, gatewayURL string) *Client {
	return &Client{
		nodeURL:    strings.TrimRight(nodeURL, "/"),
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		http:       &http.Client{Timeout: requestTimeout},
	}
}

// Price returns the network storage price for byteSize bytes, in winston.
// The node responds with a bare integer body.
func (c *Client) Price(ctx context.Context, byteSize int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/price/%d", c.nodeURL, byteSize), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("arweave price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("arweave price returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, err
	}
	winston, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("arweave price body is not an integer: %w", err)
	}
	return winston, nil
}

// TransactionStatus reports whether a transaction landed in a block.
func (c *Client) TransactionStatus(ctx context.Context, txID string) (*TxStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/tx/%s/status", c.nodeURL, txID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arweave status request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &TxStatus{Confirmed: false}, nil
	}
	var raw struct {
		BlockHeight           *int64 `json:"block_height"`
		NumberOfConfirmations int64  `json:"number_of_confirmations"`
		BlockIndepHash        string `json:"block_indep_hash"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode arweave status: %w", err)
	}
	st := &TxStatus{
		Confirmed:     raw.BlockHeight != nil,
		Confirmations: raw.NumberOfConfirmations,
		BlockHash:     raw.BlockIndepHash,
	}
	if raw.BlockHeight != nil {
		st.BlockHeight = *raw.BlockHeight
	}
	return st, nil
}

// GatewayURL returns the public fetch URL for a transaction.
func (c *Client) GatewayURL(txID string) string {
	return c.gatewayURL + "/" + txID
}

// IsValidTxID reports whether s looks like an Arweave transaction id
// (43-char base64url).
func IsValidTxID(s string) bool {
	return txIDPattern.MatchString(s)
}

// WinstonToAR converts a winston amount to AR.
func WinstonToAR(winston int64) decimal.Decimal {
	return decimal.NewFromInt(winston).Shift(-12)
}

// ARToWinston converts an AR amount to winston, truncating sub-winston dust.
func ARToWinston(ar decimal.Decimal) int64 {
	return ar.Shift(12).IntPart()
}
