package handlers

import (
	"net/http"
	"time"

	"github.com/permadocs/permapay/internal/app/service/payment"
	"github.com/permadocs/permapay/internal/app/service/statistics"
	models "github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/pkg/response"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// PaymentItem is the flattened admin view of a payment request.
type PaymentItem struct {
	ID                   string              `json:"id"`
	UserID               string              `json:"user_id"`
	PayerWallet          string              `json:"payer_wallet"`
	Network              types.Network       `json:"network"`
	TokenSymbol          types.TokenSymbol   `json:"token_symbol"`
	AmountUSD            string              `json:"amount_usd"`
	AmountCrypto         string              `json:"amount_crypto"`
	Status               types.PaymentStatus `json:"status"`
	MatchedTxHash        *string             `json:"matched_tx_hash"`
	ActualAmountReceived *string             `json:"actual_amount_received"`
	ConfirmedAt          *time.Time          `json:"confirmed_at"`
	ExpiresAt            time.Time           `json:"expires_at"`
	UploadStatus         types.UploadStatus  `json:"upload_status"`
	StorageTxID          *string             `json:"storage_tx_id"`
	GatewayURL           *string             `json:"gateway_url"`
	FileName             string              `json:"file_name"`
	FileSizeBytes        int64               `json:"file_size_bytes"`
	WalletKind           types.WalletKind    `json:"wallet_kind"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func toPaymentItem(m *models.PaymentRequest) *PaymentItem {
	item := &PaymentItem{
		ID:            m.ID,
		UserID:        m.UserID,
		PayerWallet:   m.PayerWallet,
		Network:       m.Network,
		TokenSymbol:   m.TokenSymbol,
		AmountUSD:     m.AmountUSD.StringFixed(2),
		AmountCrypto:  m.AmountCrypto.StringFixed(8),
		Status:        m.Status,
		MatchedTxHash: m.MatchedTxHash,
		ConfirmedAt:   m.ConfirmedAt,
		ExpiresAt:     m.ExpiresAt,
		UploadStatus:  m.UploadStatus,
		StorageTxID:   m.StorageTxID,
		GatewayURL:    m.GatewayURL,
		FileSizeBytes: m.FileSizeBytes,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ActualAmountReceived != nil {
		item.ActualAmountReceived = lo.ToPtr(m.ActualAmountReceived.StringFixed(8))
	}
	if meta := m.GetMetadata(); meta != nil {
		item.FileName = meta.FileName
		item.WalletKind = meta.WalletKind
	}
	return item
}

type ListPaymentsResponse struct {
	Items []*PaymentItem `json:"items"`
	Total int64          `json:"total"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable list of all payment requests.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentsRequest true "List payments request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func ApiListPayments(mgr payment.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		scanReq := &payment.ScanPaymentsRequest{Filters: req.Filters, From: req.From, Size: req.Size, SortBy: req.SortBy, SortOrder: req.SortOrder}
		res, err := mgr.ScanPayments(c.Request.Context(), scanReq)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.PaymentRequest, _ int) *PaymentItem { return toPaymentItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPaymentsResponse{Items: items, Total: res.Total}))
	}
}

// @Summary      Payment Statistics (Admin)
// @Description  Computes dashboard statistics such as daily payment counts, revenue and upload success rate.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body statistics.PaymentStatisticRequest true "Statistic request with filters and data items"
// @Success      200  {object}  handlers.RespPaymentStatistic
// @Router       /api/v1/admin/payment_statistic [post]
func ApiPaymentStatistic(stats *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.PaymentStatisticRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if len(req.DataItems) == 0 {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing data_items"))
			return
		}
		res, err := stats.GetPaymentStatistic(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminPaymentRoutes(r gin.IRouter, mgr payment.Manager, stats *statistics.Service) {
	r.POST("/list_payments", ApiListPayments(mgr))
	r.POST("/payment_statistic", ApiPaymentStatistic(stats))
}
