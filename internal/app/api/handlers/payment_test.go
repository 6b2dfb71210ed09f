package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/permadocs/permapay/internal/app/service/payment"
	"github.com/permadocs/permapay/pkg/response"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubManager struct {
	quote     types.CostBreakdown
	createRes *payment.CreatePaymentResponse
	createErr error
	statusRes *payment.StatusResponse
	statusErr error
	options   *payment.SupportedOptions
	scanRes   *payment.ScanPaymentsResponse
	scanErr   error

	lastStatusID     string
	lastStatusUserID string
}

func (s *stubManager) Quote(_ context.Context, _ int64) types.CostBreakdown { return s.quote }

func (s *stubManager) CreatePayment(_ context.Context, _ *payment.CreatePaymentRequest) (*payment.CreatePaymentResponse, error) {
	return s.createRes, s.createErr
}

func (s *stubManager) CheckStatus(_ context.Context, paymentID, userID string) (*payment.StatusResponse, error) {
	s.lastStatusID = paymentID
	s.lastStatusUserID = userID
	return s.statusRes, s.statusErr
}

func (s *stubManager) SupportedOptions(_ context.Context) *payment.SupportedOptions {
	return s.options
}

func (s *stubManager) ScanPayments(_ context.Context, _ *payment.ScanPaymentsRequest) (*payment.ScanPaymentsResponse, error) {
	return s.scanRes, s.scanErr
}

type envelope struct {
	Code response.APIResponseCode `json:"code"`
	Data json.RawMessage          `json:"data"`
}

func doRequest(t *testing.T, mgr payment.Manager, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1"), mgr)

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestApiStorageQuote_OK(t *testing.T) {
	mgr := &stubManager{quote: types.CostBreakdown{
		FileSizeBytes: 1 << 20,
		TotalUSD:      decimal.RequireFromString("2.66"),
		PriceSource:   "bundler",
	}}

	w, env := doRequest(t, mgr, http.MethodGet, "/api/v1/storage/quote?file_size_bytes=1048576", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "bundler", data["price_source"])
}

func TestApiStorageQuote_InvalidSize(t *testing.T) {
	for _, q := range []string{"", "?file_size_bytes=0", "?file_size_bytes=-5", "?file_size_bytes=abc"} {
		_, env := doRequest(t, &stubManager{}, http.MethodGet, "/api/v1/storage/quote"+q, "")
		require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
	}
}

func TestApiCreatePayment_OK(t *testing.T) {
	mgr := &stubManager{createRes: &payment.CreatePaymentResponse{PaymentID: "pay-1"}}

	_, env := doRequest(t, mgr, http.MethodPost, "/api/v1/payments",
		`{"user_id":"user-1","payer_wallet":"0xabc","wallet_kind":"metamask","file_ref":"a/b","file_size_bytes":1024}`)
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "pay-1", data["payment_id"])
}

func TestApiCreatePayment_ValidationErrors(t *testing.T) {
	mgr := &stubManager{createErr: payment.ErrUnsupportedWalletKind}

	_, env := doRequest(t, mgr, http.MethodPost, "/api/v1/payments", `{"user_id":"user-1"}`)
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiCreatePayment_MalformedBody(t *testing.T) {
	_, env := doRequest(t, &stubManager{}, http.MethodPost, "/api/v1/payments", `{not json`)
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiPaymentStatus_OK(t *testing.T) {
	mgr := &stubManager{statusRes: &payment.StatusResponse{
		PaymentID: "pay-1",
		Status:    types.PaymentStatusPending,
		Message:   "Waiting for payment confirmation",
	}}

	_, env := doRequest(t, mgr, http.MethodGet, "/api/v1/payments/pay-1/status?user_id=user-1", "")
	require.Equal(t, response.APIResponseCodeOK, env.Code)
	require.Equal(t, "pay-1", mgr.lastStatusID)
	require.Equal(t, "user-1", mgr.lastStatusUserID)
}

func TestApiPaymentStatus_NotFound(t *testing.T) {
	mgr := &stubManager{statusErr: payment.ErrPaymentNotFound}

	_, env := doRequest(t, mgr, http.MethodGet, "/api/v1/payments/nope/status", "")
	require.Equal(t, response.APIResponseCodeBadRequest, env.Code)
}

func TestApiPaymentOptions(t *testing.T) {
	mgr := &stubManager{options: &payment.SupportedOptions{ReceivingWallet: "0xrecv", PaymentTTLMinutes: 15}}

	_, env := doRequest(t, mgr, http.MethodGet, "/api/v1/payments/options", "")
	require.Equal(t, response.APIResponseCodeOK, env.Code)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "0xrecv", data["receiving_wallet"])
	require.Equal(t, float64(15), data["payment_ttl_minutes"])
}

func TestRegisterPaymentRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPaymentRoutes(r.Group("/api/v1"), &stubManager{})

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/storage/quote"))
	require.True(t, contains("POST /api/v1/payments"))
	require.True(t, contains("GET /api/v1/payments/options"))
	require.True(t, contains("GET /api/v1/payments/:id/status"))
}
