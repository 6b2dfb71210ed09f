package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists storage transactions and writes settlement outcomes back
// onto payment requests. Claim is the at-most-once guard: the unique index
// on payment_request_id makes the first inserter the only uploader.
type Store interface {
	// Claim inserts tx unless a storage transaction already references the
	// same payment request. Returns the surviving row and whether the
	// caller won the claim.
	Claim(ctx context.Context, tx *models.StorageTransaction) (claimed bool, row *models.StorageTransaction, err error)
	Confirm(ctx context.Context, id string, networkTxID, gatewayURL, contentHash string, confirmedAt time.Time) error
	Fail(ctx context.Context, id string, errMsg string) error
	SetPaymentUploadResult(ctx context.Context, paymentID string, status types.UploadStatus, storageTxID, gatewayURL *string) error
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Claim(ctx context.Context, tx *models.StorageTransaction) (bool, *models.StorageTransaction, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_request_id"}},
			DoNothing: true,
		}).
		Create(tx)
	if res.Error != nil {
		return false, nil, fmt.Errorf("failed to claim settlement: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return true, tx, nil
	}

	// Lost the race: someone else holds the claim.
	var existing models.StorageTransaction
	err := s.db.WithContext(ctx).
		Where("payment_request_id = ?", tx.PaymentRequestID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, fmt.Errorf("settlement claim lost but no existing row found")
		}
		return false, nil, err
	}
	return false, &existing, nil
}

func (s *gormStore) Confirm(ctx context.Context, id string, networkTxID, gatewayURL, contentHash string, confirmedAt time.Time) error {
	return s.db.WithContext(ctx).Model(&models.StorageTransaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        types.StorageTxStatusConfirmed,
			"network_tx_id": networkTxID,
			"gateway_url":   gatewayURL,
			"content_hash":  contentHash,
			"confirmed_at":  confirmedAt,
		}).Error
}

func (s *gormStore) Fail(ctx context.Context, id string, errMsg string) error {
	return s.db.WithContext(ctx).Model(&models.StorageTransaction{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":    types.StorageTxStatusFailed,
			"error_msg": errMsg,
		}).Error
}

func (s *gormStore) SetPaymentUploadResult(ctx context.Context, paymentID string, status types.UploadStatus, storageTxID, gatewayURL *string) error {
	updates := map[string]any{"upload_status": status}
	if storageTxID != nil {
		updates["storage_tx_id"] = *storageTxID
	}
	if gatewayURL != nil {
		updates["gateway_url"] = *gatewayURL
	}
	return s.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ?", paymentID).
		Updates(updates).Error
}
