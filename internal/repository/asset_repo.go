// internal/repository/asset_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// AssetRepository defines the interface for position data operations.
type AssetRepository interface {
	CreateAsset(ctx context.Context, q DBExecutor, asset *domain.Asset) error
	GetAssetByID(ctx context.Context, q DBExecutor, id int64) (*domain.Asset, error)
	GetAssetByUserAndCoin(ctx context.Context, q DBExecutor, userID int64, coinID string) (*domain.Asset, error)
	// GetAssetByUserAndCoinForUpdate row-locks the position until the transaction ends.
	GetAssetByUserAndCoinForUpdate(ctx context.Context, q DBExecutor, userID int64, coinID string) (*domain.Asset, error)
	ListAssetsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Asset, error)
	// UpdateAsset stores quantity and buy price of an existing position.
	UpdateAsset(ctx context.Context, q DBExecutor, asset *domain.Asset) error
	DeleteAsset(ctx context.Context, q DBExecutor, id int64) error
}
