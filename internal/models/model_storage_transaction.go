package models

import (
	"time"

	"github.com/permadocs/permapay/pkg/types"

	"gorm.io/datatypes"
)

// UploadTag is one name/value pair attached to the bundled upload.
type UploadTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StorageTransaction records one upload attempt against the storage network.
// The unique index on payment_request_id is the serialization point for
// at-most-once settlement: the first inserter wins the right to upload.
type StorageTransaction struct {
	ID string `gorm:"column:id;primary_key;type:uuid" json:"id"`
	// PaymentRequestID is nullable: non-monetized flows may upload without
	// a priced payment.
	PaymentRequestID *string `gorm:"column:payment_request_id;type:uuid;uniqueIndex:unique_payment_request_id;default:null" json:"payment_request_id"`
	FileRef          string  `gorm:"column:file_ref;type:varchar(256);not null" json:"file_ref"`
	ByteSize         int64   `gorm:"column:byte_size;type:bigint;not null" json:"byte_size"`
	// ContentHash is the hex sha256 of the uploaded payload.
	ContentHash string `gorm:"column:content_hash;type:varchar(64);not null" json:"content_hash"`
	// NetworkTxID is the storage-network transaction id (43-char base64url
	// for Arweave), empty until the upload succeeds.
	NetworkTxID string                `gorm:"column:network_tx_id;type:varchar(64);index" json:"network_tx_id"`
	GatewayURL  string                `gorm:"column:gateway_url;type:varchar(256)" json:"gateway_url"`
	Status      types.StorageTxStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	ErrorMsg    *string               `gorm:"column:error_msg;type:text;default:null" json:"error_msg"`

	Tags datatypes.JSONType[[]UploadTag] `gorm:"column:tags;type:jsonb;default:'[]'" json:"tags"`

	SubmittedAt time.Time  `gorm:"column:submitted_at;not null" json:"submitted_at"`
	ConfirmedAt *time.Time `gorm:"column:confirmed_at;default:null" json:"confirmed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (StorageTransaction) TableName() string {
	return "storage_transaction"
}

func (t *StorageTransaction) IsConfirmed() bool {
	return t != nil && t.Status == types.StorageTxStatusConfirmed
}
