// internal/domain/asset.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a user's position in one coin. At most one exists per (user, coin).
type Asset struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	CoinID    string          `db:"coin_id" json:"coin_id"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	BuyPrice  decimal.Decimal `db:"buy_price" json:"buy_price"` // weighted average entry price
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewAsset opens a position at price.
func NewAsset(userID int64, coinID string, quantity, price decimal.Decimal) *Asset {
	now := time.Now().UTC()
	return &Asset{
		UserID:    userID,
		CoinID:    coinID,
		Quantity:  quantity,
		BuyPrice:  price,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MarketValue is quantity priced at price.
func (a *Asset) MarketValue(price decimal.Decimal) decimal.Decimal {
	return a.Quantity.Mul(price)
}
