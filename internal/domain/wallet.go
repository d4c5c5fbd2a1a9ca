// internal/domain/wallet.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet is a user's internal balance of quote currency. A user owns exactly one.
type Wallet struct {
	ID        int64           `db:"id" json:"id"`
	UserID    int64           `db:"user_id" json:"user_id"`
	Balance   decimal.Decimal `db:"balance" json:"balance"` // never negative
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// NewWallet creates a zero-balance Wallet for userID.
func NewWallet(userID int64) *Wallet {
	now := time.Now().UTC()
	return &Wallet{
		UserID:    userID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
