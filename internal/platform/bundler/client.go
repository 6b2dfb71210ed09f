package bundler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	priceTimeout  = 10 * time.Second
	uploadTimeout = 60 * time.Second
)

// Tag is one name/value metadata pair bundled with the upload.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// UploadReceipt is the bundler's acknowledgement of a stored payload.
type UploadReceipt struct {
	ID         string `json:"id"`
	GatewayURL string `json:"gateway_url"`
}

// Client wraps an L2 bundling service (Bundlr/Irys style) that batches data
// onto Arweave. It covers the two endpoints the payment flow needs: price
// lookup and upload.
type Client struct {
	baseURL    string
	apiKey     string
	gatewayURL string
	priceHTTP  *http.Client
	uploadHTTP *http.Client
}

func New(baseURL, apiKey, gatewayURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
		priceHTTP:  &http.Client{Timeout: priceTimeout},
		uploadHTTP: &http.Client{Timeout: uploadTimeout},
	}
}

// Price returns the bundler's storage price for byteSize bytes, in winston.
func (c *Client) Price(ctx context.Context, byteSize int64) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/price/%d", c.baseURL, byteSize), nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.priceHTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("bundler price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bundler price returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return 0, err
	}
	winston, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bundler price body is not an integer: %w", err)
	}
	return winston, nil
}

// Upload posts the payload to the bundler's /tx endpoint and returns the
// resulting storage transaction id.
func (c *Client) Upload(ctx context.Context, data []byte, tags []Tag) (*UploadReceipt, error) {
	payload := struct {
		Data string `json:"data"`
		Tags []Tag  `json:"tags"`
	}{
		Data: base64.StdEncoding.EncodeToString(data),
		Tags: tags,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tx", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.uploadHTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bundler upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bundler upload returned status %d: %s", resp.StatusCode, string(raw))
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode bundler response: %w", err)
	}
	if out.ID == "" {
		return nil, fmt.Errorf("bundler response missing transaction id")
	}
	return &UploadReceipt{ID: out.ID, GatewayURL: c.gatewayURL + "/" + out.ID}, nil
}
