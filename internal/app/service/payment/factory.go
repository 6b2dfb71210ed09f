package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/permadocs/permapay/internal/app/service/pricing"
	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logctx"
	"github.com/permadocs/permapay/pkg/tool"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Factory creates pending payment requests: picks a network/token route for
// the payer's wallet, freezes the USD→crypto conversion at the current
// rate, and opens the TTL window.
type Factory struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	oracle *pricing.Oracle
	store  Store
}

func NewFactory(cfg *config.Config, log *zap.SugaredLogger, oracle *pricing.Oracle, store Store) *Factory {
	return &Factory{cfg: cfg, log: log, oracle: oracle, store: store}
}

func (f *Factory) Create(ctx context.Context, req *CreatePaymentRequest, breakdown types.CostBreakdown) (*models.PaymentRequest, *PaymentDescriptor, error) {
	if err := f.validate(req); err != nil {
		return nil, nil, err
	}

	network, token := f.selectRoute(req.WalletKind, breakdown.TotalUSD)
	networkCfg := f.cfg.NetworkByID(network)
	tokenCfg := f.cfg.TokenBySymbol(token)
	if networkCfg == nil || tokenCfg == nil {
		return nil, nil, fmt.Errorf("%w: %s on %s", ErrUnsupportedToken, token, network)
	}

	rate := f.oracle.Rate(ctx, token)
	amountCrypto := breakdown.TotalUSD.Div(rate).Round(8)

	if f.cfg.Crypto.ReceivingWallet == "" {
		// Payments cannot be matched without a receiving wallet; creation
		// still proceeds so the misconfiguration is visible, not fatal.
		logctx.FromCtx(ctx, f.log).Warnw("receiving wallet is not configured")
	}

	now := time.Now()
	p := &models.PaymentRequest{
		ID:            tool.GenerateUUIDV7(),
		UserID:        req.UserID,
		PayerWallet:   req.PayerWallet,
		Network:       network,
		ChainID:       networkCfg.ChainID,
		TokenSymbol:   token,
		AmountUSD:     breakdown.TotalUSD,
		AmountCrypto:  amountCrypto,
		Status:        types.PaymentStatusPending,
		ExpiresAt:     now.Add(time.Duration(f.cfg.Crypto.PaymentTTLMinutes) * time.Minute),
		FileSizeBytes: req.FileSizeBytes,
		CostBreakdown: datatypes.NewJSONType(&breakdown),
		Metadata: datatypes.NewJSONType(&models.PaymentMetadata{
			WalletKind:  req.WalletKind,
			ServiceType: "permanent_storage",
			FileName:    req.FileName,
			FileRef:     req.FileRef,
		}),
	}
	if err := f.store.Create(ctx, p); err != nil {
		return nil, nil, err
	}

	logctx.FromCtx(ctx, f.log).Infow("payment request created",
		"payment_id", p.ID, "network", network, "token", token,
		"amount_usd", p.AmountUSD.String(), "amount_crypto", p.AmountCrypto.String())

	return p, f.descriptor(p, networkCfg, tokenCfg), nil
}

func (f *Factory) validate(req *CreatePaymentRequest) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidPaymentRequest)
	}
	if req.UserID == "" {
		return fmt.Errorf("%w: missing user_id", ErrInvalidPaymentRequest)
	}
	if req.PayerWallet == "" {
		return fmt.Errorf("%w: missing payer_wallet", ErrInvalidPaymentRequest)
	}
	if req.FileRef == "" {
		return fmt.Errorf("%w: missing file_ref", ErrInvalidPaymentRequest)
	}
	if req.FileSizeBytes <= 0 {
		return fmt.Errorf("%w: file_size_bytes must be positive", ErrInvalidPaymentRequest)
	}
	if f.cfg.WalletByKind(req.WalletKind) == nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedWalletKind, req.WalletKind)
	}
	return nil
}

// selectRoute picks network+token for the payer. Ronin wallets always pay
// in the chain's native token; otherwise small amounts go to the low-fee
// chain and larger ones to mainnet, both in the stablecoin.
func (f *Factory) selectRoute(kind types.WalletKind, totalUSD decimal.Decimal) (types.Network, types.TokenSymbol) {
	if kind == types.WalletKindRonin {
		return types.NetworkRonin, types.TokenRON
	}
	if totalUSD.LessThan(decimal.NewFromFloat(f.cfg.Crypto.StablecoinThreshold)) {
		return types.NetworkPolygon, types.TokenUSDC
	}
	return types.NetworkEthereum, types.TokenUSDC
}

func (f *Factory) descriptor(p *models.PaymentRequest, networkCfg *config.NetworkConfig, tokenCfg *config.TokenConfig) *PaymentDescriptor {
	return &PaymentDescriptor{
		ToAddress:       f.cfg.Crypto.ReceivingWallet,
		Amount:          p.AmountCrypto.StringFixed(8),
		Token:           p.TokenSymbol,
		Network:         networkCfg.Name,
		ChainID:         networkCfg.ChainID,
		ContractAddress: f.cfg.ContractAddress(p.TokenSymbol, p.Network),
		Decimals:        tokenCfg.Decimals,
		ExplorerURL:     networkCfg.ExplorerURL,
		ExpiresAt:       p.ExpiresAt,
	}
}
