package pricing

import (
	"context"

	"github.com/permadocs/permapay/internal/platform/arweave"
	"github.com/permadocs/permapay/pkg/config"

	"github.com/shopspring/decimal"
)

const (
	sourceBundler        = "bundler"
	sourceArweaveNode    = "arweave_node"
	sourceStaticEstimate = "static_estimate"
)

// networkCost is the raw storage-network price of one upload.
type networkCost struct {
	Winston   int64
	AR        decimal.Decimal
	USD       decimal.Decimal
	Source    string
	Estimated bool
}

// winstonPricer is the common surface of the bundler and arweave clients.
type winstonPricer interface {
	Price(ctx context.Context, byteSize int64) (int64, error)
}

// priceSource is one step of the pricing cascade: bundler first, direct
// network second, static estimate last. The cascade takes the first source
// that succeeds; the static source never fails.
type priceSource interface {
	Name() string
	NetworkCost(ctx context.Context, byteSize int64) (*networkCost, error)
}

// winstonSource prices via an endpoint returning winston and converts to
// USD through the oracle's AR rate.
type winstonSource struct {
	name   string
	pricer winstonPricer
	oracle *Oracle
}

func (s *winstonSource) Name() string { return s.name }

func (s *winstonSource) NetworkCost(ctx context.Context, byteSize int64) (*networkCost, error) {
	winston, err := s.pricer.Price(ctx, byteSize)
	if err != nil {
		return nil, err
	}
	ar := arweave.WinstonToAR(winston)
	return &networkCost{
		Winston: winston,
		AR:      ar,
		USD:     ar.Mul(s.oracle.ARRate(ctx)),
		Source:  s.name,
	}, nil
}

// staticSource is the terminal fallback: a flat per-GB USD estimate with a
// floor. It cannot fail.
type staticSource struct {
	cfg    *config.Config
	oracle *Oracle
}

func (s *staticSource) Name() string { return sourceStaticEstimate }

func (s *staticSource) NetworkCost(ctx context.Context, byteSize int64) (*networkCost, error) {
	sizeGB := decimal.NewFromInt(byteSize).Div(decimal.NewFromInt(1 << 30))
	usd := sizeGB.Mul(decimal.NewFromFloat(s.cfg.Pricing.FallbackGBRateUSD))
	floor := decimal.NewFromFloat(s.cfg.Pricing.EstimateFloorUSD)
	if usd.LessThan(floor) {
		usd = floor
	}
	ar := decimal.Zero
	if rate := s.oracle.ARRate(ctx); rate.IsPositive() {
		ar = usd.Div(rate)
	}
	return &networkCost{
		Winston:   arweave.ARToWinston(ar),
		AR:        ar,
		USD:       usd,
		Source:    sourceStaticEstimate,
		Estimated: true,
	}, nil
}
