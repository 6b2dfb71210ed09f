package settlement

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/permadocs/permapay/internal/models"
	"github.com/permadocs/permapay/internal/platform/blobstore"
	"github.com/permadocs/permapay/internal/platform/bundler"
	"github.com/permadocs/permapay/pkg/config"
	"github.com/permadocs/permapay/pkg/logctx"
	"github.com/permadocs/permapay/pkg/tool"
	"github.com/permadocs/permapay/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// UploadGateway is the bundler upload surface the pipeline depends on. The
// pipeline treats it as a black box with a success/failure contract.
type UploadGateway interface {
	Upload(ctx context.Context, data []byte, tags []bundler.Tag) (*bundler.UploadReceipt, error)
}

// Result reports the settlement outcome for one payment request.
type Result struct {
	StorageTx *models.StorageTransaction `json:"storage_tx"`
	// AlreadySettled is true when an earlier settle owned the upload and
	// this invocation returned its recorded result.
	AlreadySettled bool `json:"already_settled"`
}

// Pipeline turns a confirmed payment into a completed storage upload,
// at most once per payment request. A failed upload after a confirmed
// payment is terminal and flagged for manual reconciliation; the payment
// status itself stays completed because the money has moved.
type Pipeline struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	store   Store
	blobs   blobstore.Store
	gateway UploadGateway
}

func NewPipeline(cfg *config.Config, log *zap.SugaredLogger, store Store, blobs blobstore.Store, gateway UploadGateway) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, store: store, blobs: blobs, gateway: gateway}
}

// Settle uploads the paid file and links the storage transaction back to
// the payment. Safe to re-enter: concurrent or repeated calls for the same
// payment resolve to the first claim's result.
func (p *Pipeline) Settle(ctx context.Context, payment *models.PaymentRequest) (*Result, error) {
	if payment == nil || payment.Status != types.PaymentStatusCompleted {
		return nil, fmt.Errorf("settle precondition: payment must be completed")
	}

	meta := payment.GetMetadata()
	if meta == nil || meta.FileRef == "" {
		return nil, fmt.Errorf("payment %s has no file reference to settle", payment.ID)
	}

	claim := &models.StorageTransaction{
		ID:               tool.GenerateUUIDV7(),
		PaymentRequestID: lo.ToPtr(payment.ID),
		FileRef:          meta.FileRef,
		ByteSize:         payment.FileSizeBytes,
		Status:           types.StorageTxStatusUploading,
		SubmittedAt:      time.Now(),
	}
	claimed, row, err := p.store.Claim(ctx, claim)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Earlier settle owns this payment; report its result regardless
		// of whether that upload ultimately succeeded or failed.
		return &Result{StorageTx: row, AlreadySettled: true}, nil
	}

	log := logctx.FromCtx(ctx, p.log)

	data, err := p.blobs.Get(ctx, meta.FileRef)
	if err != nil {
		return p.failSettlement(ctx, payment, row, fmt.Errorf("failed to load payload: %w", err))
	}

	tags := p.uploadTags(payment, meta, data)
	receipt, err := p.gateway.Upload(ctx, data, tags)
	if err != nil {
		return p.failSettlement(ctx, payment, row, fmt.Errorf("upload failed: %w", err))
	}

	contentHash := blobstore.HashHex(data)
	confirmedAt := time.Now()
	if err := p.store.Confirm(ctx, row.ID, receipt.ID, receipt.GatewayURL, contentHash, confirmedAt); err != nil {
		return nil, fmt.Errorf("upload succeeded but confirm write failed: %w", err)
	}
	if err := p.store.SetPaymentUploadResult(ctx, payment.ID, types.UploadStatusCompleted, lo.ToPtr(receipt.ID), lo.ToPtr(receipt.GatewayURL)); err != nil {
		return nil, fmt.Errorf("upload succeeded but payment link write failed: %w", err)
	}

	row.Status = types.StorageTxStatusConfirmed
	row.NetworkTxID = receipt.ID
	row.GatewayURL = receipt.GatewayURL
	row.ContentHash = contentHash
	row.ConfirmedAt = &confirmedAt
	row.Tags = datatypes.NewJSONType(toModelTags(tags))

	log.Infow("settlement completed",
		"payment_id", payment.ID, "storage_tx_id", receipt.ID, "byte_size", len(data))
	return &Result{StorageTx: row}, nil
}

func (p *Pipeline) failSettlement(ctx context.Context, payment *models.PaymentRequest, row *models.StorageTransaction, cause error) (*Result, error) {
	log := logctx.FromCtx(ctx, p.log)
	log.Errorw("settlement failed, payment requires manual reconciliation",
		"payment_id", payment.ID, "storage_tx_id", row.ID, "err", cause)

	if err := p.store.Fail(ctx, row.ID, cause.Error()); err != nil {
		log.Errorw("failed to record settlement failure", "storage_tx_id", row.ID, "err", err)
	}
	if err := p.store.SetPaymentUploadResult(ctx, payment.ID, types.UploadStatusFailed, nil, nil); err != nil {
		log.Errorw("failed to flag payment upload failure", "payment_id", payment.ID, "err", err)
	}
	row.Status = types.StorageTxStatusFailed
	row.ErrorMsg = lo.ToPtr(cause.Error())
	return &Result{StorageTx: row}, cause
}

func (p *Pipeline) uploadTags(payment *models.PaymentRequest, meta *models.PaymentMetadata, data []byte) []bundler.Tag {
	return []bundler.Tag{
		{Name: "App-Name", Value: "permapay"},
		{Name: "File-Name", Value: meta.FileName},
		{Name: "File-Size", Value: strconv.Itoa(len(data))},
		{Name: "Content-Hash", Value: blobstore.HashHex(data)},
		{Name: "Payment-ID", Value: payment.ID},
		{Name: "Upload-Timestamp", Value: time.Now().UTC().Format(time.RFC3339)},
	}
}

func toModelTags(tags []bundler.Tag) []models.UploadTag {
	out := make([]models.UploadTag, 0, len(tags))
	for _, t := range tags {
		out = append(out, models.UploadTag{Name: t.Name, Value: t.Value})
	}
	return out
}
