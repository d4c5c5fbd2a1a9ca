// internal/repository/coin_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// CoinRepository caches market snapshots.
type CoinRepository interface {
	// UpsertCoin inserts or refreshes a snapshot keyed by coin id.
	UpsertCoin(ctx context.Context, q DBExecutor, coin *domain.Coin) error
	GetCoinByID(ctx context.Context, q DBExecutor, id string) (*domain.Coin, error)
	ListCoins(ctx context.Context, q DBExecutor, limit, offset int) ([]domain.Coin, error)
}
