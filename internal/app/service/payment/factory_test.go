package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/permadocs/permapay/internal/app/service/pricing"
	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeStore is an in-memory Store with the same compare-and-swap transition
// semantics as the database-backed one.
type fakeStore struct {
	mu   sync.Mutex
	rows map[string]*models.PaymentRequest
}

func newFakeStore(rows ...*models.PaymentRequest) *fakeStore {
	s := &fakeStore{rows: make(map[string]*models.PaymentRequest)}
	for _, r := range rows {
		cp := *r
		s.rows[r.ID] = &cp
	}
	return s
}

func (s *fakeStore) Create(_ context.Context, p *models.PaymentRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.rows[p.ID] = &cp
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*models.PaymentRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *fakeStore) MarkExpired(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.Status != types.PaymentStatusPending {
		return false, nil
	}
	row.Status = types.PaymentStatusExpired
	return true, nil
}

func (s *fakeStore) MarkCompleted(_ context.Context, id, txHash string, amount decimal.Decimal, confirmedAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok || row.Status != types.PaymentStatusPending {
		return false, nil
	}
	row.Status = types.PaymentStatusCompleted
	row.MatchedTxHash = &txHash
	row.ActualAmountReceived = &amount
	row.ConfirmedAt = &confirmedAt
	return true, nil
}

func (s *fakeStore) SweepExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, row := range s.rows {
		if row.Status == types.PaymentStatusPending && now.After(row.ExpiresAt) {
			row.Status = types.PaymentStatusExpired
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) setUploadResult(id string, status types.UploadStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[id]; ok {
		row.UploadStatus = status
	}
}

func testPaymentConfig() *config.Config {
	return &config.Config{
		Crypto: config.CryptoConfig{
			ReceivingWallet:     receiver,
			PaymentTTLMinutes:   15,
			Tolerance:           "0.01",
			ExplorerAPIKey:      "test-key",
			SweepIntervalSecs:   60,
			StablecoinThreshold: 10.0,
			Networks: []config.NetworkConfig{
				{ID: types.NetworkPolygon, Name: "Polygon", ChainID: 137, NativeCurrency: "MATIC", ExplorerURL: "https://polygonscan.com", ExplorerAPIURL: "https://api.polygonscan.com/api"},
				{ID: types.NetworkEthereum, Name: "Ethereum", ChainID: 1, NativeCurrency: "ETH", ExplorerURL: "https://etherscan.io", ExplorerAPIURL: "https://api.etherscan.io/api"},
				{ID: types.NetworkRonin, Name: "Ronin", ChainID: 2020, NativeCurrency: "RON", ExplorerURL: "https://explorer.roninchain.com", ExplorerAPIURL: "https://explorer-kintsugi.roninchain.com/api"},
			},
			Tokens: []config.TokenConfig{
				{
					Symbol: types.TokenUSDC, Name: "USD Coin", Decimals: 6, Stable: true,
					PriceFeedID: "usd-coin", FallbackPriceUSD: 1.0,
					Addresses: map[string]string{
						"polygon":  "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
						"ethereum": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
					},
				},
				{Symbol: types.TokenRON, Name: "Ronin", Decimals: 18, Native: true, PriceFeedID: "ronin", FallbackPriceUSD: 1.5},
			},
			Wallets: []config.WalletConfig{
				{Kind: types.WalletKindMetaMask, Name: "MetaMask", Networks: []types.Network{types.NetworkEthereum, types.NetworkPolygon}},
				{Kind: types.WalletKindRonin, Name: "Ronin Wallet", Networks: []types.Network{types.NetworkRonin}},
			},
		},
		Pricing: config.PricingConfig{
			// Unroutable feed URL keeps rate lookups on static fallbacks.
			PriceFeedURL:         "http://127.0.0.1:0",
			PriceCacheTTLMinutes: 5,
			ARFallbackPriceUSD:   10.0,
		},
	}
}

func newTestFactory(store Store) *Factory {
	cfg := testPaymentConfig()
	log := zap.NewNop().Sugar()
	return NewFactory(cfg, log, pricing.NewOracle(cfg, log), store)
}

func createReq() *CreatePaymentRequest {
	return &CreatePaymentRequest{
		UserID:        "user-1",
		PayerWallet:   payer,
		WalletKind:    types.WalletKindMetaMask,
		FileName:      "whitepaper.pdf",
		FileRef:       "2026/08/whitepaper.pdf",
		FileSizeBytes: 1 << 20,
	}
}

func breakdown(totalUSD string) types.CostBreakdown {
	return types.CostBreakdown{
		FileSizeBytes:      1 << 20,
		BaseNetworkCostUSD: decimal.RequireFromString("0.10"),
		ServiceFeeUSD:      decimal.RequireFromString("0.05"),
		TotalUSD:           decimal.RequireFromString(totalUSD),
		PriceSource:        "bundler",
	}
}

func TestFactoryCreate_SmallAmountRoutesToPolygonUSDC(t *testing.T) {
	store := newFakeStore()
	f := newTestFactory(store)

	p, d, err := f.Create(context.Background(), createReq(), breakdown("2.66"))
	require.NoError(t, err)
	require.Equal(t, types.NetworkPolygon, p.Network)
	require.Equal(t, types.TokenUSDC, p.TokenSymbol)
	require.Equal(t, int64(137), d.ChainID)
	require.Equal(t, "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174", d.ContractAddress)
	// Stablecoin at the 1.0 fallback rate: crypto amount equals USD total.
	require.Equal(t, "2.66000000", d.Amount)
	require.Equal(t, receiver, d.ToAddress)
}

func TestFactoryCreate_LargeAmountRoutesToEthereum(t *testing.T) {
	f := newTestFactory(newFakeStore())

	p, d, err := f.Create(context.Background(), createReq(), breakdown("50.00"))
	require.NoError(t, err)
	require.Equal(t, types.NetworkEthereum, p.Network)
	require.Equal(t, types.TokenUSDC, p.TokenSymbol)
	require.Equal(t, int64(1), d.ChainID)
}

func TestFactoryCreate_RoninWalletPaysNative(t *testing.T) {
	f := newTestFactory(newFakeStore())

	req := createReq()
	req.WalletKind = types.WalletKindRonin

	p, d, err := f.Create(context.Background(), req, breakdown("2.66"))
	require.NoError(t, err)
	require.Equal(t, types.NetworkRonin, p.Network)
	require.Equal(t, types.TokenRON, p.TokenSymbol)
	// 2.66 USD at the 1.5 USD/RON fallback rate.
	require.Equal(t, "1.77333333", d.Amount)
	require.Empty(t, d.ContractAddress)
	require.Equal(t, int64(2020), d.ChainID)
}

func TestFactoryCreate_PersistsPendingRowWithTTL(t *testing.T) {
	store := newFakeStore()
	f := newTestFactory(store)

	before := time.Now()
	p, _, err := f.Create(context.Background(), createReq(), breakdown("2.66"))
	require.NoError(t, err)

	saved, err := store.Get(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPending, saved.Status)
	require.WithinDuration(t, before.Add(15*time.Minute), saved.ExpiresAt, 5*time.Second)

	meta := saved.GetMetadata()
	require.NotNil(t, meta)
	require.Equal(t, "2026/08/whitepaper.pdf", meta.FileRef)
	require.Equal(t, types.WalletKindMetaMask, meta.WalletKind)
}

func TestFactoryCreate_Validation(t *testing.T) {
	f := newTestFactory(newFakeStore())

	cases := []struct {
		name   string
		mutate func(*CreatePaymentRequest)
		want   error
	}{
		{"missing user", func(r *CreatePaymentRequest) { r.UserID = "" }, ErrInvalidPaymentRequest},
		{"missing wallet", func(r *CreatePaymentRequest) { r.PayerWallet = "" }, ErrInvalidPaymentRequest},
		{"missing file ref", func(r *CreatePaymentRequest) { r.FileRef = "" }, ErrInvalidPaymentRequest},
		{"zero size", func(r *CreatePaymentRequest) { r.FileSizeBytes = 0 }, ErrInvalidPaymentRequest},
		{"unknown wallet kind", func(r *CreatePaymentRequest) { r.WalletKind = "ledger" }, ErrUnsupportedWalletKind},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := createReq()
			tc.mutate(req)
			_, _, err := f.Create(context.Background(), req, breakdown("2.66"))
			require.ErrorIs(t, err, tc.want)
		})
	}
}
