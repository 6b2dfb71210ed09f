package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Store is the payment-request persistence surface. Status transitions are
// compare-and-swap updates guarded on the pending state so that concurrent
// polls for the same request serialize at the database.
type Store interface {
	Create(ctx context.Context, p *models.PaymentRequest) error
	Get(ctx context.Context, id string) (*models.PaymentRequest, error)
	// MarkExpired transitions pending→expired. Returns false when the row
	// was not pending anymore.
	MarkExpired(ctx context.Context, id string) (bool, error)
	// MarkCompleted transitions pending→completed with the matched
	// transaction details. Returns false when another poll won the race.
	MarkCompleted(ctx context.Context, id, txHash string, amount decimal.Decimal, confirmedAt time.Time) (bool, error)
	// SweepExpired expires every overdue pending row, returning the count.
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store { return &gormStore{db: db} }

func (s *gormStore) Create(ctx context.Context, p *models.PaymentRequest) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create payment request: %w", err)
	}
	return nil
}

func (s *gormStore) Get(ctx context.Context, id string) (*models.PaymentRequest, error) {
	var p models.PaymentRequest
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) MarkExpired(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", id, types.PaymentStatusPending).
		Update("status", types.PaymentStatusExpired)
	return res.RowsAffected == 1, res.Error
}

func (s *gormStore) MarkCompleted(ctx context.Context, id, txHash string, amount decimal.Decimal, confirmedAt time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("id = ? AND status = ?", id, types.PaymentStatusPending).
		Updates(map[string]any{
			"status":                 types.PaymentStatusCompleted,
			"matched_tx_hash":        txHash,
			"actual_amount_received": amount,
			"confirmed_at":           confirmedAt,
		})
	return res.RowsAffected == 1, res.Error
}

func (s *gormStore) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.PaymentRequest{}).
		Where("status = ? AND expires_at <= ?", types.PaymentStatusPending, now).
		Update("status", types.PaymentStatusExpired)
	return res.RowsAffected, res.Error
}
