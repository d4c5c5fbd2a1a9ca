// internal/market/binance.go
package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"

	"github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"
)

// BinanceProvider prices coins from Binance spot tickers. Only coins listed in Symbols are known.
type BinanceProvider struct {
	client  *binance.Client
	Symbols map[string]string // coin id -> trading pair, e.g. bitcoin -> BTCUSDT
}

// NewBinanceProvider creates a provider. An empty baseURL keeps the library default.
func NewBinanceProvider(apiKey, secretKey, baseURL string, symbols map[string]string) *BinanceProvider {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &BinanceProvider{client: client, Symbols: symbols}
}

// ParseSymbolMap reads "bitcoin:BTCUSDT,ethereum:ETHUSDT".
func ParseSymbolMap(s string) map[string]string {
	out := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		id, symbol, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || id == "" || symbol == "" {
			continue
		}
		out[strings.ToLower(id)] = strings.ToUpper(symbol)
	}
	return out
}

// FetchCoin implements Provider.
func (p *BinanceProvider) FetchCoin(ctx context.Context, coinID string) (*domain.Coin, error) {
	symbol, ok := p.Symbols[strings.ToLower(coinID)]
	if !ok {
		return nil, fmt.Errorf("binance: no symbol for %s: %w", coinID, util.ErrCoinNotFound)
	}

	prices, err := p.client.NewListPricesService().Symbol(symbol).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance: list prices for %s: %w", symbol, err)
	}
	for _, sp := range prices {
		if sp.Symbol != symbol {
			continue
		}
		price, err := decimal.NewFromString(sp.Price)
		if err != nil {
			return nil, fmt.Errorf("binance: parse price %q for %s: %w", sp.Price, symbol, err)
		}
		return &domain.Coin{
			ID:           coinID,
			Symbol:       strings.ToLower(symbol),
			CurrentPrice: price,
			LastUpdated:  time.Now().UTC(),
		}, nil
	}
	return nil, fmt.Errorf("binance: %s missing from ticker response: %w", symbol, util.ErrCoinNotFound)
}
