package payment

import (
	"context"
	"testing"
	"time"

	"github.com/permadocs/permapay/pkg/types"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckStatus_ForeignUserReadsAsNotFound(t *testing.T) {
	store := newFakeStore(pendingPayment())
	w, _ := newTestWatcher(store, &fakeFetcher{}, &fakeSettler{})
	s := &Service{store: store, watcher: w}

	_, err := s.CheckStatus(context.Background(), "pay-1", "someone-else")
	require.ErrorIs(t, err, ErrPaymentNotFound)

	res, err := s.CheckStatus(context.Background(), "pay-1", "user-1")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPending, res.Status)
}

func TestSupportedOptions_ReflectsConfig(t *testing.T) {
	cfg := testPaymentConfig()
	s := &Service{cfg: cfg}

	opts := s.SupportedOptions(context.Background())
	require.Equal(t, cfg.Crypto.ReceivingWallet, opts.ReceivingWallet)
	require.Equal(t, 15, opts.PaymentTTLMinutes)
	require.Len(t, opts.Networks, 3)
	require.Len(t, opts.Wallets, 2)
}

func TestSweepOnce_ExpiresOverduePayments(t *testing.T) {
	overdue := pendingPayment()
	overdue.ExpiresAt = time.Now().Add(-time.Minute)
	fresh := pendingPayment()
	fresh.ID = "pay-2"

	store := newFakeStore(overdue, fresh)
	s := &Sweeper{log: zap.NewNop().Sugar(), store: store, interval: time.Minute}
	s.sweepOnce()

	row, err := store.Get(context.Background(), "pay-1")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusExpired, row.Status)

	row, err = store.Get(context.Background(), "pay-2")
	require.NoError(t, err)
	require.Equal(t, types.PaymentStatusPending, row.Status)
}
