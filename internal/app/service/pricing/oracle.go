package pricing

import (
	"context"
	"sync"
	"time"

	"github.com/permadocs/permapay/internal/platform/pricefeed"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logctx"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const arweaveFeedID = "arweave"

type priceFeed interface {
	SimplePrice(ctx context.Context, ids []string) (map[string]pricefeed.AssetPrice, error)
}

type cachedRate struct {
	rate      decimal.Decimal
	fetchedAt time.Time
}

// Oracle resolves USD rates for payment tokens and AR. Live rates come from
// the price feed with a short-TTL cache; any failure degrades to the static
// per-asset fallback rate from config. Lookups never fail.
type Oracle struct {
	feed     priceFeed
	cfg      *config.Config
	log      *zap.SugaredLogger
	cacheTTL time.Duration

	mu    sync.Mutex
	cache map[string]cachedRate
}

func NewOracle(cfg *config.Config, log *zap.SugaredLogger) *Oracle {
	return newOracle(pricefeed.New(cfg.Pricing.PriceFeedURL), cfg, log)
}

func newOracle(feed priceFeed, cfg *config.Config, log *zap.SugaredLogger) *Oracle {
	ttl := time.Duration(cfg.Pricing.PriceCacheTTLMinutes) * time.Minute
	return &Oracle{
		feed:     feed,
		cfg:      cfg,
		log:      log,
		cacheTTL: ttl,
		cache:    make(map[string]cachedRate),
	}
}

// Rate returns the USD price of one unit of the token. The returned rate is
// always positive; an unknown symbol resolves to 1.0 so stablecoin-priced
// requests still make progress.
func (o *Oracle) Rate(ctx context.Context, symbol types.TokenSymbol) decimal.Decimal {
	token := o.cfg.TokenBySymbol(symbol)
	if token == nil {
		logctx.FromCtx(ctx, o.log).Warnw("rate lookup for unknown token", "symbol", symbol)
		return decimal.NewFromInt(1)
	}
	return o.rateByFeedID(ctx, token.PriceFeedID, decimal.NewFromFloat(token.FallbackPriceUSD))
}

// ARRate returns the USD price of one AR.
func (o *Oracle) ARRate(ctx context.Context) decimal.Decimal {
	return o.rateByFeedID(ctx, arweaveFeedID, decimal.NewFromFloat(o.cfg.Pricing.ARFallbackPriceUSD))
}

func (o *Oracle) rateByFeedID(ctx context.Context, feedID string, fallback decimal.Decimal) decimal.Decimal {
	if r, ok := o.cached(feedID); ok {
		return r
	}

	prices, err := o.feed.SimplePrice(ctx, []string{feedID})
	if err != nil {
		logctx.FromCtx(ctx, o.log).Warnw("price feed unavailable, using fallback rate",
			"asset", feedID, "fallback", fallback.String(), "err", err)
		return fallback
	}
	p, ok := prices[feedID]
	if !ok || p.USD <= 0 {
		logctx.FromCtx(ctx, o.log).Warnw("price feed missing asset, using fallback rate",
			"asset", feedID, "fallback", fallback.String())
		return fallback
	}

	rate := decimal.NewFromFloat(p.USD)
	o.store(feedID, rate)
	return rate
}

func (o *Oracle) cached(feedID string) (decimal.Decimal, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.cache[feedID]
	if !ok || time.Since(entry.fetchedAt) > o.cacheTTL {
		return decimal.Decimal{}, false
	}
	return entry.rate, true
}

func (o *Oracle) store(feedID string, rate decimal.Decimal) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache[feedID] = cachedRate{rate: rate, fetchedAt: time.Now()}
}
