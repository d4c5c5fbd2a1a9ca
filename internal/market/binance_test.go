// internal/market/binance_test.go
package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolMap(t *testing.T) {
	m := ParseSymbolMap("bitcoin:btcusdt, Ethereum:ETHUSDT,broken,:X")
	assert.Equal(t, map[string]string{"bitcoin": "BTCUSDT", "ethereum": "ETHUSDT"}, m)
}

func TestBinanceFetchCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"symbol":"BTCUSDT","price":"64250.12000000"}]`))
	}))
	defer srv.Close()

	p := NewBinanceProvider("", "", srv.URL, map[string]string{"bitcoin": "BTCUSDT"})

	coin, err := p.FetchCoin(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, "bitcoin", coin.ID)
	assert.True(t, decimal.RequireFromString("64250.12").Equal(coin.CurrentPrice))

	_, err = p.FetchCoin(context.Background(), "dogecoin")
	assert.ErrorIs(t, err, util.ErrCoinNotFound)
}
