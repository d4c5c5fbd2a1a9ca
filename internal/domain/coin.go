// internal/domain/coin.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coin is a cached market-data snapshot keyed by the provider's coin id.
type Coin struct {
	ID                       string          `db:"id" json:"id"`
	Symbol                   string          `db:"symbol" json:"symbol"`
	Name                     string          `db:"name" json:"name"`
	Image                    string          `db:"image" json:"image"`
	CurrentPrice             decimal.Decimal `db:"current_price" json:"current_price"`
	MarketCap                decimal.Decimal `db:"market_cap" json:"market_cap"`
	MarketCapRank            int             `db:"market_cap_rank" json:"market_cap_rank"`
	TotalVolume              decimal.Decimal `db:"total_volume" json:"total_volume"`
	High24h                  decimal.Decimal `db:"high_24h" json:"high_24h"`
	Low24h                   decimal.Decimal `db:"low_24h" json:"low_24h"`
	PriceChange24h           decimal.Decimal `db:"price_change_24h" json:"price_change_24h"`
	PriceChangePercentage24h decimal.Decimal `db:"price_change_percentage_24h" json:"price_change_percentage_24h"`
	LastUpdated              time.Time       `db:"last_updated" json:"last_updated"`
}
