package payment

import (
	"context"
	"encoding/json"
	"time"

	"github.com/permadocs/permapay/internal/app/service/eventlog"
	"github.com/permadocs/permapay/internal/app/service/settlement"
	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/internal/platform/explorer"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logctx"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type transferFetcher interface {
	TokenTransfers(ctx context.Context, q explorer.TransferQuery) ([]explorer.TokenTransfer, error)
}

// Settler converts a completed payment into a storage upload exactly once.
type Settler interface {
	Settle(ctx context.Context, p *models.PaymentRequest) (*settlement.Result, error)
}

type eventRecorder interface {
	Save(ctx context.Context, entry *models.PaymentEventLog)
}

// Watcher drives the payment state machine on each poll. Transitions are
// monotone (pending → completed/expired/failed); the expiry check runs
// before any network call, and explorer flakiness never escalates beyond
// "still pending".
type Watcher struct {
	cfg       *config.Config
	log       *zap.SugaredLogger
	store     Store
	fetcher   transferFetcher
	settler   Settler
	events    eventRecorder
	tolerance decimal.Decimal
}

func NewWatcher(cfg *config.Config, log *zap.SugaredLogger, store Store, pipeline *settlement.Pipeline, events *eventlog.Service) *Watcher {
	return newWatcher(cfg, log, store, explorer.New(), pipeline, events)
}

func newWatcher(cfg *config.Config, log *zap.SugaredLogger, store Store, fetcher transferFetcher, settler Settler, events eventRecorder) *Watcher {
	tolerance, err := decimal.NewFromString(cfg.Crypto.Tolerance)
	if err != nil || !tolerance.IsPositive() {
		tolerance = decimal.NewFromFloat(0.01)
	}
	return &Watcher{cfg: cfg, log: log, store: store, fetcher: fetcher, settler: settler, events: events, tolerance: tolerance}
}

// Poll advances one payment request. Safe to call concurrently for the same
// id: the completed transition is a guarded update and settlement claims
// are unique per payment.
func (w *Watcher) Poll(ctx context.Context, id string) (*StatusResponse, error) {
	p, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.IsTerminal() {
		return w.finishTerminal(ctx, p)
	}

	now := time.Now()
	if p.IsExpired(now) {
		// Expiry precedence: decided before any explorer call, even when a
		// matching transaction might exist out there.
		if ok, err := w.store.MarkExpired(ctx, p.ID); err != nil {
			return nil, err
		} else if !ok {
			return w.refetchTerminal(ctx, p.ID)
		}
		p.Status = types.PaymentStatusExpired
		return w.response(p, nil), nil
	}

	match, ok := w.matchOnChain(ctx, p)
	if !ok {
		return w.response(p, nil), nil
	}

	completed, err := w.store.MarkCompleted(ctx, p.ID, match.Hash, match.Amount, now)
	if err != nil {
		return nil, err
	}
	if !completed {
		// Another poll transitioned this request first.
		return w.refetchTerminal(ctx, p.ID)
	}

	w.logMatched(ctx, p, match)

	p, err = w.store.Get(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	res := w.settle(ctx, p)
	return w.response(p, res), nil
}

// matchOnChain scans the receiving wallet's transfer history for a payment
// matching this request. Every failure mode is a no-match for this poll.
func (w *Watcher) matchOnChain(ctx context.Context, p *models.PaymentRequest) (*explorer.TokenTransfer, bool) {
	log := logctx.FromCtx(ctx, w.log)

	networkCfg := w.cfg.NetworkByID(p.Network)
	if networkCfg == nil || networkCfg.ExplorerAPIURL == "" {
		log.Warnw("no explorer configured for network", "network", p.Network)
		return nil, false
	}
	if w.cfg.Crypto.ExplorerAPIKey == "" {
		log.Warnw("explorer api key is not configured, chain matching disabled")
		return nil, false
	}
	if w.cfg.Crypto.ReceivingWallet == "" {
		log.Warnw("receiving wallet is not configured, chain matching disabled")
		return nil, false
	}

	transfers, err := w.fetcher.TokenTransfers(ctx, explorer.TransferQuery{
		APIURL:          networkCfg.ExplorerAPIURL,
		Address:         w.cfg.Crypto.ReceivingWallet,
		ContractAddress: w.cfg.ContractAddress(p.TokenSymbol, p.Network),
		APIKey:          w.cfg.Crypto.ExplorerAPIKey,
	})
	if err != nil {
		log.Warnw("explorer scan failed, payment stays pending",
			"payment_id", p.ID, "network", p.Network, "err", err)
		return nil, false
	}

	match := findMatch(transfers, matchCriteria{
		ExpectedAmount: p.AmountCrypto,
		Tolerance:      w.tolerance,
		Payer:          p.PayerWallet,
		Receiver:       w.cfg.Crypto.ReceivingWallet,
		WindowStart:    p.CreatedAt,
		WindowEnd:      p.ExpiresAt,
	})
	return match, match != nil
}

// finishTerminal returns the cached terminal status. A completed payment
// whose upload never ran (e.g. a crash between transition and settle) is
// re-entered into the settlement pipeline, which is claim-guarded.
func (w *Watcher) finishTerminal(ctx context.Context, p *models.PaymentRequest) (*StatusResponse, error) {
	if p.Status == types.PaymentStatusCompleted && p.UploadStatus == types.UploadStatusNone {
		res := w.settle(ctx, p)
		return w.response(p, res), nil
	}
	return w.response(p, nil), nil
}

func (w *Watcher) refetchTerminal(ctx context.Context, id string) (*StatusResponse, error) {
	p, err := w.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return w.finishTerminal(ctx, p)
}

func (w *Watcher) settle(ctx context.Context, p *models.PaymentRequest) *settlement.Result {
	res, err := w.settler.Settle(ctx, p)
	if err != nil {
		// Already flagged on the payment row by the pipeline; the poll
		// response reports upload failure without the upstream detail.
		logctx.FromCtx(ctx, w.log).Errorw("settlement error", "payment_id", p.ID, "err", err)
		p.UploadStatus = types.UploadStatusFailed
		return res
	}
	if res != nil && res.StorageTx != nil && res.StorageTx.IsConfirmed() {
		p.UploadStatus = types.UploadStatusCompleted
		p.StorageTxID = &res.StorageTx.NetworkTxID
		p.GatewayURL = &res.StorageTx.GatewayURL
	}
	return res
}

func (w *Watcher) logMatched(ctx context.Context, p *models.PaymentRequest, match *explorer.TokenTransfer) {
	logctx.FromCtx(ctx, w.log).Infow("payment matched on chain",
		"payment_id", p.ID, "tx_hash", match.Hash, "amount", match.Amount.String())

	data, _ := json.Marshal(map[string]any{
		"tx_hash":  match.Hash,
		"amount":   match.Amount.String(),
		"expected": p.AmountCrypto.String(),
	})
	w.events.Save(ctx, &models.PaymentEventLog{
		PaymentRequestID: p.ID,
		Event:            "payment_matched",
		EventTime:        time.Now(),
		Data:             datatypes.JSON(data),
		Status:           models.PaymentEventLogStatusHandled,
	})
}

func (w *Watcher) response(p *models.PaymentRequest, res *settlement.Result) *StatusResponse {
	out := &StatusResponse{
		PaymentID:    p.ID,
		Status:       p.Status,
		TxHash:       p.MatchedTxHash,
		ConfirmedAt:  p.ConfirmedAt,
		ExplorerURL:  p.ExplorerTxURL(),
		UploadStatus: p.UploadStatus,
		StorageTxID:  p.StorageTxID,
		GatewayURL:   p.GatewayURL,
	}
	switch p.Status {
	case types.PaymentStatusPending:
		out.Message = "Waiting for payment confirmation"
		out.AmountExpected = p.AmountCrypto.StringFixed(8)
		out.Token = p.TokenSymbol
		out.Network = p.Network
		if remaining := time.Until(p.ExpiresAt); remaining > 0 {
			out.ExpiresInSeconds = int64(remaining.Seconds())
		}
	case types.PaymentStatusExpired:
		out.Message = "Payment window has expired"
	case types.PaymentStatusFailed:
		out.Message = "Payment failed"
	case types.PaymentStatusCompleted:
		switch p.UploadStatus {
		case types.UploadStatusCompleted:
			out.Message = "Payment confirmed and file stored permanently"
		case types.UploadStatusFailed:
			out.Message = "Payment received but the storage upload failed; flagged for reconciliation"
		default:
			out.Message = "Payment confirmed, upload in progress"
		}
		if res != nil && res.StorageTx != nil && res.StorageTx.IsConfirmed() {
			out.StorageTxID = &res.StorageTx.NetworkTxID
			out.GatewayURL = &res.StorageTx.GatewayURL
		}
	}
	return out
}
