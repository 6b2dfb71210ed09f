package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/permadocs/permapay/pkg/types"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Statistic types exposed on the admin dashboard
type StatisticType string

const (
	// Daily counts and revenue
	StatisticTypeDailyPaymentCount StatisticType = "daily_payment_count"
	StatisticTypeDailyRevenue      StatisticType = "daily_revenue"
	StatisticTypeTotalRevenue      StatisticType = "total_revenue"

	// Storage related
	StatisticTypeDailyStoredBytes    StatisticType = "daily_stored_bytes"
	StatisticTypeUploadSuccessRate   StatisticType = "upload_success_rate"
	StatisticTypePaymentStatusCounts StatisticType = "payment_status_counts"
)

// Filter types supported by certain statistic types
type PaymentStatisticFilterType string

const (
	PaymentStatisticFilterTypeNetwork PaymentStatisticFilterType = "network"
	PaymentStatisticFilterTypeToken   PaymentStatisticFilterType = "token_symbol"
	PaymentStatisticFilterTypeStatus  PaymentStatisticFilterType = "status"
)

var filterTypes = []PaymentStatisticFilterType{
	PaymentStatisticFilterTypeNetwork,
	PaymentStatisticFilterTypeToken,
	PaymentStatisticFilterTypeStatus,
}

var validFilters = map[PaymentStatisticFilterType][]StatisticType{
	PaymentStatisticFilterTypeNetwork: {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue, StatisticTypePaymentStatusCounts},
	PaymentStatisticFilterTypeToken:   {StatisticTypeDailyPaymentCount, StatisticTypeDailyRevenue},
	PaymentStatisticFilterTypeStatus:  {StatisticTypeDailyPaymentCount},
}

type PaymentStatisticDataItem struct {
	ID StatisticType `json:"id"`
}

type PaymentStatisticRequest struct {
	Filters   []*types.CommonFilter       `json:"filters"`
	DataItems []*PaymentStatisticDataItem `json:"data_items"`
}

func (f *PaymentStatisticRequest) GetFilters(statisticType StatisticType) *PaymentStatisticRequest {
	if f == nil || len(f.Filters) == 0 {
		return f
	}
	var result PaymentStatisticRequest
	for _, filter := range f.Filters {
		if statisticTypes, ok := validFilters[PaymentStatisticFilterType(filter.Field)]; ok {
			if lo.Contains(statisticTypes, statisticType) {
				result.Filters = append(result.Filters, filter)
			}
		} else {
			result.Filters = append(result.Filters, filter)
		}
	}
	return &result
}

// Build composes a WHERE clause from the provided filters.
func (f *PaymentStatisticRequest) Build(builder clause.Builder) {
	if len(f.Filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, filter := range f.Filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		filter.Build(builder)
	}
}

type PaymentStatisticResponseDataItem struct {
	Date   string `json:"date"`
	Label  string `json:"label,omitempty"`
	Value  int64  `json:"value"`
	Value2 int64  `json:"value2,omitempty"`
	Value3 int64  `json:"value3,omitempty"`
}

type PaymentStatisticResponse struct {
	DataItems map[StatisticType][]PaymentStatisticResponseDataItem `json:"data_items"`
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) getDailyPaymentCount(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment_request").
		Select("TO_CHAR(created_at, 'YYYY-MM-DD') as date, status AS label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyPaymentCount)}}).
		Group("TO_CHAR(created_at, 'YYYY-MM-DD')").
		Group("status").
		Order("date")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyRevenue(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	// Revenue in cents to keep the response integral
	q := s.db.WithContext(ctx).Table("payment_request").
		Select("TO_CHAR(confirmed_at, 'YYYY-MM-DD') as date, network AS label, CAST(ROUND(SUM(amount_usd) * 100) AS BIGINT) as value").
		Where("status = ?", types.PaymentStatusCompleted).
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypeDailyRevenue)}}).
		Group("TO_CHAR(confirmed_at, 'YYYY-MM-DD')").
		Group("network").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getTotalRevenue(ctx context.Context, _ *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	err := s.db.WithContext(ctx).Raw(`
WITH min_max_dates AS (
    SELECT MIN(DATE(confirmed_at)) as min_date, MAX(DATE(confirmed_at)) as max_date
    FROM payment_request
    WHERE status = ?
),
distinct_dates AS (
    SELECT generate_series(min_date, max_date, '1 day'::interval) as date FROM min_max_dates
),
revenue_date AS (
    SELECT TO_CHAR(d.date, 'YYYY-MM-DD') as date,
           CAST(ROUND(COALESCE(SUM(p.amount_usd), 0) * 100) AS BIGINT) as value
    FROM distinct_dates d
    LEFT JOIN payment_request p
      ON DATE(p.confirmed_at) = DATE(d.date)
     AND p.status = ?
    GROUP BY d.date
)
SELECT d.date as date, SUM(s.value) as value
FROM revenue_date d
LEFT JOIN revenue_date s ON s.date <= d.date
GROUP BY d.date
ORDER BY d.date DESC
`, types.PaymentStatusCompleted, types.PaymentStatusCompleted).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getDailyStoredBytes(ctx context.Context, _ *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("storage_transaction").
		Select("TO_CHAR(confirmed_at, 'YYYY-MM-DD') as date, SUM(byte_size) as value, count(*) as value2").
		Where("status = ?", types.StorageTxStatusConfirmed).
		Group("TO_CHAR(confirmed_at, 'YYYY-MM-DD')").
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// getUploadSuccessRate reports, per day, the share of completed payments
// whose upload went through. value is the rate in basis points.
func (s *Service) getUploadSuccessRate(ctx context.Context, _ *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	sql := `
WITH completed AS (
  SELECT DATE(confirmed_at) as date,
         COUNT(*) as total,
         COUNT(*) FILTER (WHERE upload_status = 'completed') as uploaded
  FROM payment_request
  WHERE status = 'completed'
  GROUP BY DATE(confirmed_at)
)
SELECT
  TO_CHAR(date, 'YYYY-MM-DD') as date,
  CASE WHEN total = 0 THEN 0
       ELSE CAST(ROUND(uploaded * 100.0 / total, 2) * 100 AS INTEGER)
  END as value,
  total as value2,
  uploaded as value3
FROM completed
ORDER BY date DESC`
	if err := s.db.WithContext(ctx).Raw(sql).Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPaymentStatusCounts(ctx context.Context, request *PaymentStatisticRequest) ([]PaymentStatisticResponseDataItem, error) {
	var results []PaymentStatisticResponseDataItem
	q := s.db.WithContext(ctx).Table("payment_request").
		Select("status AS label, count(*) as value").
		Where(clause.Where{Exprs: []clause.Expression{request.GetFilters(StatisticTypePaymentStatusCounts)}}).
		Group("status")
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Service) getPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest, dataItem *PaymentStatisticDataItem) ([]PaymentStatisticResponseDataItem, error) {
	switch dataItem.ID {
	case StatisticTypeDailyPaymentCount:
		return s.getDailyPaymentCount(ctx, request)
	case StatisticTypeDailyRevenue:
		return s.getDailyRevenue(ctx, request)
	case StatisticTypeTotalRevenue:
		return s.getTotalRevenue(ctx, request)
	case StatisticTypeDailyStoredBytes:
		return s.getDailyStoredBytes(ctx, request)
	case StatisticTypeUploadSuccessRate:
		return s.getUploadSuccessRate(ctx, request)
	case StatisticTypePaymentStatusCounts:
		return s.getPaymentStatusCounts(ctx, request)
	default:
		return nil, fmt.Errorf("invalid data item id: %s", dataItem.ID)
	}
}

func (s *Service) GetPaymentStatistic(ctx context.Context, request *PaymentStatisticRequest) (*PaymentStatisticResponse, error) {
	var wg sync.WaitGroup
	errChan := make(chan error, len(request.DataItems))
	resChan := make(chan *lo.Entry[StatisticType, []PaymentStatisticResponseDataItem], len(request.DataItems))

	for _, item := range request.DataItems {
		wg.Add(1)
		go func(di *PaymentStatisticDataItem) {
			defer wg.Done()
			// check filter applicability
			for _, filter := range request.Filters {
				ft := PaymentStatisticFilterType(filter.Field)
				if lo.Contains(filterTypes, ft) && !lo.Contains(validFilters[ft], di.ID) {
					resChan <- &lo.Entry[StatisticType, []PaymentStatisticResponseDataItem]{Key: di.ID, Value: nil}
					return
				}
			}
			res, err := s.getPaymentStatistic(ctx, request, di)
			if err != nil {
				errChan <- err
				return
			}
			resChan <- &lo.Entry[StatisticType, []PaymentStatisticResponseDataItem]{Key: di.ID, Value: res}
		}(item)
	}

	go func() { wg.Wait(); close(errChan); close(resChan) }()

	results := make(map[StatisticType][]PaymentStatisticResponseDataItem)
	for i := 0; i < len(request.DataItems); i++ {
		select {
		case err := <-errChan:
			if err != nil {
				return nil, err
			}
		case entry := <-resChan:
			results[entry.Key] = entry.Value
		}
	}
	return &PaymentStatisticResponse{DataItems: results}, nil
}
