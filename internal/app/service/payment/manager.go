package payment

import (
	"context"
	"time"

	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/types"
)

// CreatePaymentRequest is the input for opening a payment window.
type CreatePaymentRequest struct {
	UserID        string           `json:"user_id"`
	PayerWallet   string           `json:"payer_wallet"`
	WalletKind    types.WalletKind `json:"wallet_kind"`
	FileName      string           `json:"file_name"`
	FileRef       string           `json:"file_ref"`
	FileSizeBytes int64            `json:"file_size_bytes"`
}

// PaymentDescriptor is everything the payer's wallet needs to send funds.
type PaymentDescriptor struct {
	ToAddress string            `json:"to_address"`
	Amount    string            `json:"amount"`
	Token     types.TokenSymbol `json:"token"`
	Network   string            `json:"network"`
	ChainID   int64             `json:"chain_id"`
	// ContractAddress is empty for native tokens.
	ContractAddress string    `json:"contract_address,omitempty"`
	Decimals        int32     `json:"decimals"`
	ExplorerURL     string    `json:"explorer_url"`
	ExpiresAt       time.Time `json:"expires_at"`
}

type CreatePaymentResponse struct {
	PaymentID     string              `json:"payment_id"`
	Descriptor    *PaymentDescriptor  `json:"payment_details"`
	CostBreakdown types.CostBreakdown `json:"cost_breakdown"`
}

// StatusResponse is the poll result surfaced to the payer. It never carries
// raw upstream error bodies; those stay in server logs.
type StatusResponse struct {
	PaymentID        string              `json:"payment_id"`
	Status           types.PaymentStatus `json:"status"`
	Message          string              `json:"message"`
	TxHash           *string             `json:"tx_hash,omitempty"`
	ConfirmedAt      *time.Time          `json:"confirmed_at,omitempty"`
	ExplorerURL      string              `json:"explorer_url,omitempty"`
	ExpiresInSeconds int64               `json:"expires_in_seconds,omitempty"`
	AmountExpected   string              `json:"amount_expected,omitempty"`
	Token            types.TokenSymbol   `json:"token,omitempty"`
	Network          types.Network       `json:"network,omitempty"`
	UploadStatus     types.UploadStatus  `json:"upload_status,omitempty"`
	StorageTxID      *string             `json:"storage_tx_id,omitempty"`
	GatewayURL       *string             `json:"gateway_url,omitempty"`
}

// SupportedOptions enumerates the payment surface for clients.
type SupportedOptions struct {
	Networks          []config.NetworkConfig `json:"networks"`
	Tokens            []config.TokenConfig   `json:"tokens"`
	Wallets           []config.WalletConfig  `json:"wallets"`
	ReceivingWallet   string                 `json:"receiving_wallet"`
	PaymentTTLMinutes int                    `json:"payment_ttl_minutes"`
}

// Scan payment request/response (admin list pages).
type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.PaymentRequest `json:"items"`
	Total int64                    `json:"total"`
}

// Manager is the payment workflow surface consumed by HTTP handlers.
type Manager interface {
	// Quote prices the storage of a file. Never fails; degraded pricing is
	// marked estimated.
	Quote(ctx context.Context, fileSizeBytes int64) types.CostBreakdown
	// CreatePayment opens a time-boxed payment window.
	CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error)
	// CheckStatus polls the chain for a matching payment and settles on
	// confirmation.
	CheckStatus(ctx context.Context, paymentID, userID string) (*StatusResponse, error)
	// SupportedOptions lists networks/tokens/wallets for clients.
	SupportedOptions(ctx context.Context) *SupportedOptions
	// ScanPayments implements paginated admin listing with filters.
	ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error)
}
