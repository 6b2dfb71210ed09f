package pricing

import (
	"context"

	"github.com/permadocs/permapay/internal/platform/arweave"
	"github.com/permadocs/permapay/internal/platform/bundler"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logctx"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var bytesPerMB = decimal.NewFromInt(1 << 20)

// Calculator produces user-facing storage quotes: network cost from the
// source cascade plus the clamped service fee, floored at the minimum
// charge. Quote never fails; when every live source is down the result is
// marked Estimated.
type Calculator struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	sources []priceSource
}

func NewCalculator(cfg *config.Config, log *zap.SugaredLogger, oracle *Oracle) *Calculator {
	bundlerClient := bundler.New(cfg.Pricing.BundlerURL, cfg.Pricing.BundlerAPIKey, cfg.Pricing.ArweaveGatewayURL)
	nodeClient := arweave.New(cfg.Pricing.ArweaveNodeURL, cfg.Pricing.ArweaveGatewayURL)
	return newCalculator(cfg, log, []priceSource{
		&winstonSource{name: sourceBundler, pricer: bundlerClient, oracle: oracle},
		&winstonSource{name: sourceArweaveNode, pricer: nodeClient, oracle: oracle},
		&staticSource{cfg: cfg, oracle: oracle},
	})
}

func newCalculator(cfg *config.Config, log *zap.SugaredLogger, sources []priceSource) *Calculator {
	return &Calculator{cfg: cfg, log: log, sources: sources}
}

// Quote prices the storage of fileSizeBytes. Non-positive sizes collapse to
// the minimum-charge case.
func (c *Calculator) Quote(ctx context.Context, fileSizeBytes int64) types.CostBreakdown {
	if fileSizeBytes < 0 {
		fileSizeBytes = 0
	}

	base := c.networkCost(ctx, fileSizeBytes)

	feePercent := decimal.NewFromFloat(c.cfg.Pricing.FeePercent).Div(decimal.NewFromInt(100))
	fee := clamp(
		base.USD.Mul(feePercent),
		decimal.NewFromFloat(c.cfg.Pricing.MinFeeUSD),
		decimal.NewFromFloat(c.cfg.Pricing.MaxFeeUSD),
	)

	total := base.USD.Add(fee)
	if minCharge := decimal.NewFromFloat(c.cfg.Pricing.MinChargeUSD); total.LessThan(minCharge) {
		total = minCharge
	}

	perMB := decimal.Zero
	if fileSizeBytes > 0 {
		perMB = total.Div(decimal.NewFromInt(fileSizeBytes).Div(bytesPerMB)).Round(4)
	}

	return types.CostBreakdown{
		FileSizeBytes:      fileSizeBytes,
		BaseNetworkCostUSD: base.USD.Round(4),
		ServiceFeeUSD:      fee.Round(4),
		TotalUSD:           total.Round(2),
		CostPerMBUSD:       perMB,
		PriceSource:        base.Source,
		Estimated:          base.Estimated,
	}
}

// networkCost walks the cascade; the last source is static and always
// succeeds, so a result is guaranteed.
func (c *Calculator) networkCost(ctx context.Context, fileSizeBytes int64) *networkCost {
	for _, src := range c.sources {
		cost, err := src.NetworkCost(ctx, fileSizeBytes)
		if err != nil {
			logctx.FromCtx(ctx, c.log).Warnw("price source failed, trying next",
				"source", src.Name(), "size_bytes", fileSizeBytes, "err", err)
			continue
		}
		return cost
	}
	// Unreachable while the static source terminates the cascade.
	return &networkCost{USD: decimal.NewFromFloat(c.cfg.Pricing.EstimateFloorUSD), Source: sourceStaticEstimate, Estimated: true}
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
