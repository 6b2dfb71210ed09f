package pricing

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	name  string
	cost  *networkCost
	err   error
	calls int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) NetworkCost(_ context.Context, _ int64) (*networkCost, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.cost, nil
}

func usdSource(name string, usd float64) *fakeSource {
	return &fakeSource{name: name, cost: &networkCost{USD: decimal.NewFromFloat(usd), Source: name}}
}

func TestQuote_MinimumChargeApplies(t *testing.T) {
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{usdSource(sourceBundler, 0.002)})

	q := c.Quote(context.Background(), 1024)
	require.Equal(t, "0.0020", q.BaseNetworkCostUSD.StringFixed(4))
	require.Equal(t, "0.05", q.ServiceFeeUSD.StringFixed(2))
	require.Equal(t, "1.00", q.TotalUSD.StringFixed(2))
	require.Equal(t, sourceBundler, q.PriceSource)
	require.False(t, q.Estimated)
}

func TestQuote_FeeIsProportional(t *testing.T) {
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{usdSource(sourceBundler, 1.00)})

	q := c.Quote(context.Background(), 2<<20)
	require.Equal(t, "0.25", q.ServiceFeeUSD.StringFixed(2))
	require.Equal(t, "1.25", q.TotalUSD.StringFixed(2))
	require.Equal(t, "0.625", q.CostPerMBUSD.String())
}

func TestQuote_FeeClampedAtMax(t *testing.T) {
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{usdSource(sourceBundler, 1000)})

	q := c.Quote(context.Background(), 500<<30)
	require.Equal(t, "50.00", q.ServiceFeeUSD.StringFixed(2))
	require.Equal(t, "1050.00", q.TotalUSD.StringFixed(2))
}

func TestQuote_CascadeFallsThrough(t *testing.T) {
	down := &fakeSource{name: sourceBundler, err: fmt.Errorf("bundler down")}
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{down, usdSource(sourceArweaveNode, 1.00)})

	q := c.Quote(context.Background(), 2<<20)
	require.Equal(t, 1, down.calls)
	require.Equal(t, sourceArweaveNode, q.PriceSource)
	require.False(t, q.Estimated)
}

func TestQuote_AllLiveSourcesDown_StaticEstimate(t *testing.T) {
	feed := &fakeFeed{err: fmt.Errorf("feed down")}
	oracle := newOracle(feed, testConfig(), zap.NewNop().Sugar())
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{
		&fakeSource{name: sourceBundler, err: fmt.Errorf("bundler down")},
		&fakeSource{name: sourceArweaveNode, err: fmt.Errorf("node down")},
		&staticSource{cfg: testConfig(), oracle: oracle},
	})

	q := c.Quote(context.Background(), 1<<30)
	require.Equal(t, sourceStaticEstimate, q.PriceSource)
	require.True(t, q.Estimated)
	require.Equal(t, "2.1300", q.BaseNetworkCostUSD.StringFixed(4))
	require.Equal(t, "2.66", q.TotalUSD.StringFixed(2))
}

func TestQuote_TinyFile_StaticEstimateFloor(t *testing.T) {
	feed := &fakeFeed{err: fmt.Errorf("feed down")}
	oracle := newOracle(feed, testConfig(), zap.NewNop().Sugar())
	c := newCalculator(testConfig(), zap.NewNop().Sugar(), []priceSource{
		&staticSource{cfg: testConfig(), oracle: oracle},
	})

	q := c.Quote(context.Background(), 10)
	require.Equal(t, "0.1000", q.BaseNetworkCostUSD.StringFixed(4))
	// Floored base still lands under the minimum charge.
	require.Equal(t, "1.00", q.TotalUSD.StringFixed(2))
	require.True(t, q.Estimated)
}

func TestStaticSource_ConvertsToAR(t *testing.T) {
	feed := &fakeFeed{err: fmt.Errorf("feed down")}
	oracle := newOracle(feed, testConfig(), zap.NewNop().Sugar())
	s := &staticSource{cfg: testConfig(), oracle: oracle}

	cost, err := s.NetworkCost(context.Background(), 1<<30)
	require.NoError(t, err)
	// 2.13 USD at the 10 USD/AR fallback rate.
	require.Equal(t, "0.213", cost.AR.String())
	require.Equal(t, int64(213_000_000_000), cost.Winston)
}
