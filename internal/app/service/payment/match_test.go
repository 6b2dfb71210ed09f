package payment

import (
	"testing"
	"time"

	"github.com/permadocs/permapay/internal/platform/explorer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	payer    = "0xPayer00000000000000000000000000000000001"
	receiver = "0xRecv000000000000000000000000000000000001"
)

func criteria(expected string, start, end time.Time) matchCriteria {
	return matchCriteria{
		ExpectedAmount: decimal.RequireFromString(expected),
		Tolerance:      decimal.RequireFromString("0.01"),
		Payer:          payer,
		Receiver:       receiver,
		WindowStart:    start,
		WindowEnd:      end,
	}
}

func transfer(hash, from, to, amount string, ts time.Time) explorer.TokenTransfer {
	return explorer.TokenTransfer{
		Hash:      hash,
		From:      from,
		To:        to,
		Amount:    decimal.RequireFromString(amount),
		Timestamp: ts,
	}
}

func TestFindMatch_ExactAmount(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	m := findMatch([]explorer.TokenTransfer{
		transfer("0xabc", payer, receiver, "2.66", time.Now()),
	}, criteria("2.66", start, end))
	require.NotNil(t, m)
	require.Equal(t, "0xabc", m.Hash)
}

func TestFindMatch_WithinTolerance(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	m := findMatch([]explorer.TokenTransfer{
		transfer("0xabc", payer, receiver, "2.655", time.Now()),
	}, criteria("2.66", start, end))
	require.NotNil(t, m)
}

func TestFindMatch_ToleranceBoundaryIsExclusive(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	// diff == tolerance must not match
	m := findMatch([]explorer.TokenTransfer{
		transfer("0xabc", payer, receiver, "2.67", time.Now()),
	}, criteria("2.66", start, end))
	require.Nil(t, m)
}

func TestFindMatch_AddressesCaseInsensitive(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	m := findMatch([]explorer.TokenTransfer{
		transfer("0xabc", "0xPAYER00000000000000000000000000000000001", "0xrecv000000000000000000000000000000000001", "2.66", time.Now()),
	}, criteria("2.66", start, end))
	require.NotNil(t, m)
}

func TestFindMatch_WrongSender(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	m := findMatch([]explorer.TokenTransfer{
		transfer("0xabc", "0xSomebodyElse", receiver, "2.66", time.Now()),
	}, criteria("2.66", start, end))
	require.Nil(t, m)
}

func TestFindMatch_OutsideWindow(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	before := transfer("0xold", payer, receiver, "2.66", start.Add(-time.Minute))
	after := transfer("0xlate", payer, receiver, "2.66", end.Add(time.Minute))
	require.Nil(t, findMatch([]explorer.TokenTransfer{before, after}, criteria("2.66", start, end)))
}

func TestFindMatch_FirstHitWins(t *testing.T) {
	start := time.Now().Add(-10 * time.Minute)
	end := time.Now().Add(5 * time.Minute)

	// Explorer returns newest first; a duplicate send resolves to the newest.
	m := findMatch([]explorer.TokenTransfer{
		transfer("0xnewer", payer, receiver, "2.66", time.Now()),
		transfer("0xolder", payer, receiver, "2.66", time.Now().Add(-time.Minute)),
	}, criteria("2.66", start, end))
	require.NotNil(t, m)
	require.Equal(t, "0xnewer", m.Hash)
}
