package types

import "github.com/shopspring/decimal"

// CostBreakdown is the priced result of a storage quote. It is embedded in a
// payment request as a JSON snapshot and never recomputed after creation.
type CostBreakdown struct {
	FileSizeBytes      int64           `json:"file_size_bytes"`
	BaseNetworkCostUSD decimal.Decimal `json:"base_network_cost_usd"`
	ServiceFeeUSD      decimal.Decimal `json:"service_fee_usd"`
	TotalUSD           decimal.Decimal `json:"total_usd"`
	CostPerMBUSD       decimal.Decimal `json:"cost_per_mb_usd"`
	// PriceSource names the pricing source that produced the base cost
	// (bundler, arweave_node or static_estimate).
	PriceSource string `json:"price_source"`
	// Estimated is true when the base cost came from the static fallback
	// rate rather than a live network price.
	Estimated bool `json:"estimated"`
}
