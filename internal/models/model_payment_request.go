package models

import (
	"time"

	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PaymentMetadata carries request context that is useful for audits but not
// queried relationally.
type PaymentMetadata struct {
	WalletKind  types.WalletKind `json:"wallet_kind"`
	ServiceType string           `json:"service_type"`
	FileName    string           `json:"file_name"`
	// FileRef locates the payload in the blob store until settlement.
	FileRef string `json:"file_ref"`
}

// PaymentRequest is a time-boxed crypto payment awaiting an on-chain match.
// Rows are never deleted; terminal rows are the audit trail.
type PaymentRequest struct {
	ID     string `gorm:"column:id;primary_key;type:uuid;index:idx_user_id_id,priority:2,sort:desc" json:"id"`
	UserID string `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_id_id,priority:1" json:"user_id"`
	// PayerWallet is the address expected to send the funds.
	PayerWallet string            `gorm:"column:payer_wallet;type:varchar(64);not null" json:"payer_wallet"`
	Network     types.Network     `gorm:"column:network;type:varchar(32);not null" json:"network"`
	ChainID     int64             `gorm:"column:chain_id;type:bigint;not null" json:"chain_id"`
	TokenSymbol types.TokenSymbol `gorm:"column:token_symbol;type:varchar(16);not null" json:"token_symbol"`
	AmountUSD   decimal.Decimal   `gorm:"column:amount_usd;type:numeric(18,4);not null" json:"amount_usd"`
	// AmountCrypto is derived from AmountUSD at creation time and is never
	// recomputed; price movement within the TTL window is the payer's risk.
	AmountCrypto         decimal.Decimal     `gorm:"column:amount_crypto;type:numeric(30,8);not null" json:"amount_crypto"`
	Status               types.PaymentStatus `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	MatchedTxHash        *string             `gorm:"column:matched_tx_hash;type:varchar(128);default:null" json:"matched_tx_hash"`
	ActualAmountReceived *decimal.Decimal    `gorm:"column:actual_amount_received;type:numeric(30,8);default:null" json:"actual_amount_received"`
	ConfirmedAt          *time.Time          `gorm:"column:confirmed_at;default:null" json:"confirmed_at"`
	ExpiresAt            time.Time           `gorm:"column:expires_at;not null;index" json:"expires_at"`

	// Settlement outcome. Status stays completed even when the upload
	// fails: money has moved and the row needs manual reconciliation.
	UploadStatus types.UploadStatus `gorm:"column:upload_status;type:varchar(16);default:''" json:"upload_status"`
	StorageTxID  *string            `gorm:"column:storage_tx_id;type:varchar(64);default:null" json:"storage_tx_id"`
	GatewayURL   *string            `gorm:"column:gateway_url;type:varchar(256);default:null" json:"gateway_url"`

	FileSizeBytes int64                                    `gorm:"column:file_size_bytes;type:bigint;not null" json:"file_size_bytes"`
	CostBreakdown datatypes.JSONType[*types.CostBreakdown] `gorm:"column:cost_breakdown;type:jsonb;default:'{}'" json:"cost_breakdown"`
	Metadata      datatypes.JSONType[*PaymentMetadata]     `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PaymentRequest) TableName() string {
	return "payment_request"
}

func (p *PaymentRequest) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

func (p *PaymentRequest) IsTerminal() bool {
	return p != nil && p.Status.Terminal()
}

func (p *PaymentRequest) GetMetadata() *PaymentMetadata {
	if p == nil {
		return nil
	}
	return p.Metadata.Data()
}

func (p *PaymentRequest) GetCostBreakdown() *types.CostBreakdown {
	if p == nil {
		return nil
	}
	return p.CostBreakdown.Data()
}

var explorerTxBase = map[types.Network]string{
	types.NetworkEthereum: "https://etherscan.io/tx/",
	types.NetworkPolygon:  "https://polygonscan.com/tx/",
	types.NetworkBSC:      "https://bscscan.com/tx/",
	types.NetworkRonin:    "https://explorer.roninchain.com/tx/",
}

// ExplorerTxURL returns the block-explorer page of the matched transaction,
// or "" while no transaction is matched.
func (p *PaymentRequest) ExplorerTxURL() string {
	if p == nil || p.MatchedTxHash == nil {
		return ""
	}
	base, ok := explorerTxBase[p.Network]
	if !ok {
		return ""
	}
	return base + *p.MatchedTxHash
}
