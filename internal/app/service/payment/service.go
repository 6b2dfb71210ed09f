package payment

import (
	"context"
	"fmt"

	"github.com/permadocs/permapay/internal/app/service/pricing"
	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	cfg        *config.Config
	log        *zap.SugaredLogger
	calculator *pricing.Calculator
	factory    *Factory
	watcher    *Watcher
	store      Store
	db         *gorm.DB
}

func NewService(cfg *config.Config, log *zap.SugaredLogger, calculator *pricing.Calculator, factory *Factory, watcher *Watcher, store Store, db *gorm.DB) Manager {
	return &Service{cfg: cfg, log: log, calculator: calculator, factory: factory, watcher: watcher, store: store, db: db}
}

func (s *Service) Quote(ctx context.Context, fileSizeBytes int64) types.CostBreakdown {
	return s.calculator.Quote(ctx, fileSizeBytes)
}

func (s *Service) CreatePayment(ctx context.Context, req *CreatePaymentRequest) (*CreatePaymentResponse, error) {
	breakdown := s.calculator.Quote(ctx, req.FileSizeBytes)
	p, descriptor, err := s.factory.Create(ctx, req, breakdown)
	if err != nil {
		return nil, err
	}
	return &CreatePaymentResponse{
		PaymentID:     p.ID,
		Descriptor:    descriptor,
		CostBreakdown: breakdown,
	}, nil
}

func (s *Service) CheckStatus(ctx context.Context, paymentID, userID string) (*StatusResponse, error) {
	p, err := s.store.Get(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if userID != "" && p.UserID != userID {
		// Requests are scoped per user; foreign ids read as not found.
		return nil, ErrPaymentNotFound
	}
	return s.watcher.Poll(ctx, paymentID)
}

func (s *Service) SupportedOptions(ctx context.Context) *SupportedOptions {
	return &SupportedOptions{
		Networks:          s.cfg.Crypto.Networks,
		Tokens:            s.cfg.Crypto.Tokens,
		Wallets:           s.cfg.Crypto.Wallets,
		ReceivingWallet:   s.cfg.Crypto.ReceivingWallet,
		PaymentTTLMinutes: s.cfg.Crypto.PaymentTTLMinutes,
	}
}

// filtersAnd is a helper to combine multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

// ScanPayments implements paginated/admin listing with filters
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.PaymentRequest{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment requests: %w", err)
	}

	var rows []*models.PaymentRequest

	q := tx.Limit(req.Size)

	if req.From > 0 {
		q = q.Offset(req.From)
	}

	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment requests: %w", err)
	}

	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}
