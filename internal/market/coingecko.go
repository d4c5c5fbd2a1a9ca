// internal/market/coingecko.go
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoClient reads /coins/markets quotes in USD. Calls are throttled to the configured per-minute budget.
type CoinGeckoClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	limiter *rate.Limiter
}

type coinGeckoMarket struct {
	ID                       string          `json:"id"`
	Symbol                   string          `json:"symbol"`
	Name                     string          `json:"name"`
	Image                    string          `json:"image"`
	CurrentPrice             decimal.Decimal `json:"current_price"`
	MarketCap                decimal.Decimal `json:"market_cap"`
	MarketCapRank            *int            `json:"market_cap_rank"`
	TotalVolume              decimal.Decimal `json:"total_volume"`
	High24h                  decimal.Decimal `json:"high_24h"`
	Low24h                   decimal.Decimal `json:"low_24h"`
	PriceChange24h           decimal.Decimal `json:"price_change_24h"`
	PriceChangePercentage24h decimal.Decimal `json:"price_change_percentage_24h"`
	LastUpdated              *time.Time      `json:"last_updated"`
}

// NewCoinGeckoClient creates a client. requestsPerMinute <= 0 disables throttling.
func NewCoinGeckoClient(baseURL, apiKey string, requestsPerMinute int) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = CoinGeckoBaseURL
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &CoinGeckoClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// FetchCoin implements Provider.
func (c *CoinGeckoClient) FetchCoin(ctx context.Context, coinID string) (*domain.Coin, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("coingecko: throttle: %w", err)
	}

	params := url.Values{}
	params.Add("vs_currency", "usd")
	params.Add("ids", coinID)
	reqURL := fmt.Sprintf("%s/coins/markets?%s", c.BaseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("coingecko: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coingecko: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("coingecko: failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		util.GetLogger().Error("CoinGecko API error", "status", resp.Status, "body", string(body))
		return nil, fmt.Errorf("coingecko: api returned status %d", resp.StatusCode)
	}

	var markets []coinGeckoMarket
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("coingecko: failed to unmarshal response: %w", err)
	}
	if len(markets) == 0 {
		return nil, fmt.Errorf("coingecko: %s: %w", coinID, util.ErrCoinNotFound)
	}
	return markets[0].toDomain(), nil
}

func (m coinGeckoMarket) toDomain() *domain.Coin {
	coin := &domain.Coin{
		ID:                       m.ID,
		Symbol:                   m.Symbol,
		Name:                     m.Name,
		Image:                    m.Image,
		CurrentPrice:             m.CurrentPrice,
		MarketCap:                m.MarketCap,
		TotalVolume:              m.TotalVolume,
		High24h:                  m.High24h,
		Low24h:                   m.Low24h,
		PriceChange24h:           m.PriceChange24h,
		PriceChangePercentage24h: m.PriceChangePercentage24h,
		LastUpdated:              time.Now().UTC(),
	}
	if m.MarketCapRank != nil {
		coin.MarketCapRank = *m.MarketCapRank
	}
	if m.LastUpdated != nil {
		coin.LastUpdated = m.LastUpdated.UTC()
	}
	return coin
}
