package payment

import (
	"strings"
	"time"

	"github.com/permadocs/permapay/internal/platform/explorer"

	"github.com/shopspring/decimal"
)

// matchCriteria is the predicate for accepting an on-chain transfer as the
// payment for one request.
type matchCriteria struct {
	ExpectedAmount decimal.Decimal
	// Tolerance is the absolute unit tolerance. On-chain amounts can carry
	// rounding artifacts from the USD conversion done at creation time.
	Tolerance   decimal.Decimal
	Payer       string
	Receiver    string
	WindowStart time.Time
	WindowEnd   time.Time
}

// findMatch returns the first transfer satisfying the criteria, or nil.
// Transfers arrive newest first from the explorer; the first hit wins —
// the amount+sender+window combination is treated as sufficiently unique.
func findMatch(transfers []explorer.TokenTransfer, c matchCriteria) *explorer.TokenTransfer {
	for i := range transfers {
		t := &transfers[i]
		if !strings.EqualFold(t.From, c.Payer) || !strings.EqualFold(t.To, c.Receiver) {
			continue
		}
		if t.Timestamp.Before(c.WindowStart) || t.Timestamp.After(c.WindowEnd) {
			continue
		}
		if t.Amount.Sub(c.ExpectedAmount).Abs().GreaterThanOrEqual(c.Tolerance) {
			continue
		}
		return t
	}
	return nil
}
