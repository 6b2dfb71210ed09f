package arweave

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPrice_ParsesBareIntegerBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/price/1048576", r.URL.Path)
		_, _ = w.Write([]byte("213000000\n"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL)
	winston, err := c.Price(context.Background(), 1<<20)
	require.NoError(t, err)
	require.Equal(t, int64(213000000), winston)
}

func TestPrice_NonIntegerBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>nope</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL)
	_, err := c.Price(context.Background(), 1<<20)
	require.Error(t, err)
}

func TestTransactionStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"block_height": 123456, "number_of_confirmations": 20, "block_indep_hash": "abc"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL)
	st, err := c.TransactionStatus(context.Background(), "someTxID")
	require.NoError(t, err)
	require.True(t, st.Confirmed)
	require.Equal(t, int64(123456), st.BlockHeight)
	require.Equal(t, int64(20), st.Confirmations)
}

func TestTransactionStatus_NotFoundIsUnconfirmed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, srv.URL)
	st, err := c.TransactionStatus(context.Background(), "someTxID")
	require.NoError(t, err)
	require.False(t, st.Confirmed)
}

func TestIsValidTxID(t *testing.T) {
	require.True(t, IsValidTxID("arTxIdarTxIdarTxIdarTxIdarTxIdarTxIdarTxId"))
	require.True(t, IsValidTxID("0123456789_-abcdefghijABCDEFGHIJklmnopqrsKL"))
	require.False(t, IsValidTxID("too-short"))
	require.False(t, IsValidTxID("has/invalid/chars00000000000000000000000000"))
}

func TestWinstonConversions(t *testing.T) {
	require.Equal(t, "1", WinstonToAR(WinstonPerAR).String())
	require.Equal(t, "0.213", WinstonToAR(213_000_000_000).String())
	require.Equal(t, int64(WinstonPerAR), ARToWinston(decimal.NewFromInt(1)))
	require.Equal(t, int64(213_000_000_000), ARToWinston(decimal.RequireFromString("0.213")))
}
