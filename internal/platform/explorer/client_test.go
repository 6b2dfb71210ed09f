package explorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenTransfers_ParsesAndNormalizes(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"module":          r.URL.Query().Get("module"),
			"action":          r.URL.Query().Get("action"),
			"address":         r.URL.Query().Get("address"),
			"contractaddress": r.URL.Query().Get("contractaddress"),
			"sort":            r.URL.Query().Get("sort"),
			"apikey":          r.URL.Query().Get("apikey"),
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": "1",
			"message": "OK",
			"result": [
				{"hash":"0xaaa","from":"0xFrom","to":"0xTo","value":"2660000","timeStamp":"1756400000","tokenDecimal":"6"},
				{"hash":"0xbad","from":"0xFrom","to":"0xTo","value":"not-a-number","timeStamp":"1756400000","tokenDecimal":"6"},
				{"hash":"0xbbb","from":"0xFrom","to":"0xTo","value":"1000000000000000000","timeStamp":"1756300000","tokenDecimal":"18"}
			]
		}`))
	}))
	defer srv.Close()

	c := New()
	transfers, err := c.TokenTransfers(context.Background(), TransferQuery{
		APIURL:          srv.URL,
		Address:         "0xTo",
		ContractAddress: "0xContract",
		APIKey:          "key-1",
	})
	require.NoError(t, err)

	require.Equal(t, "account", gotQuery["module"])
	require.Equal(t, "tokentx", gotQuery["action"])
	require.Equal(t, "0xTo", gotQuery["address"])
	require.Equal(t, "0xContract", gotQuery["contractaddress"])
	require.Equal(t, "desc", gotQuery["sort"])
	require.Equal(t, "key-1", gotQuery["apikey"])

	// The malformed row is dropped, not fatal.
	require.Len(t, transfers, 2)
	require.Equal(t, "0xaaa", transfers[0].Hash)
	require.Equal(t, "2.66", transfers[0].Amount.String())
	require.Equal(t, time.Unix(1756400000, 0), transfers[0].Timestamp)
	require.Equal(t, "1", transfers[1].Amount.String())
}

func TestTokenTransfers_OmitsEmptyContractFilter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.False(t, r.URL.Query().Has("contractaddress"))
		_, _ = w.Write([]byte(`{"result": []}`))
	}))
	defer srv.Close()

	c := New()
	transfers, err := c.TokenTransfers(context.Background(), TransferQuery{APIURL: srv.URL, Address: "0xTo", APIKey: "k"})
	require.NoError(t, err)
	require.Empty(t, transfers)
}

func TestTokenTransfers_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New()
	_, err := c.TokenTransfers(context.Background(), TransferQuery{APIURL: srv.URL, Address: "0xTo"})
	require.Error(t, err)
}
