// internal/repository/postgres/asset_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
)

const assetColumns = `id, user_id, coin_id, quantity, buy_price, created_at, updated_at`

// AssetRepository implements repository.AssetRepository for PostgreSQL.
type AssetRepository struct{}

// NewAssetRepository creates a new AssetRepository.
func NewAssetRepository() repository.AssetRepository {
	return &AssetRepository{}
}

// CreateAsset inserts a new position.
func (r *AssetRepository) CreateAsset(ctx context.Context, q repository.DBExecutor, asset *domain.Asset) error {
	query := `INSERT INTO assets (user_id, coin_id, quantity, buy_price, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		asset.UserID, asset.CoinID, asset.Quantity, asset.BuyPrice, asset.CreatedAt, asset.UpdatedAt,
	).Scan(&asset.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("asset %s for user %d: %w", asset.CoinID, asset.UserID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create asset: %w", err)
	}
	return nil
}

// GetAssetByID retrieves a position by its ID.
func (r *AssetRepository) GetAssetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Asset, error) {
	var asset domain.Asset
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`
	if err := q.GetContext(ctx, &asset, query, id); err != nil {
		if isNoRows(err) {
			return nil, util.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset by ID %d: %w", id, err)
	}
	return &asset, nil
}

func (r *AssetRepository) getByUserAndCoin(ctx context.Context, q repository.DBExecutor, userID int64, coinID string, lock bool) (*domain.Asset, error) {
	var asset domain.Asset
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 AND coin_id = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	if err := q.GetContext(ctx, &asset, query, userID, coinID); err != nil {
		if isNoRows(err) {
			return nil, util.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset %s for user %d: %w", coinID, userID, err)
	}
	return &asset, nil
}

// GetAssetByUserAndCoin retrieves the position a user holds in a coin.
func (r *AssetRepository) GetAssetByUserAndCoin(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return r.getByUserAndCoin(ctx, q, userID, coinID, false)
}

// GetAssetByUserAndCoinForUpdate retrieves and locks the position a user holds in a coin.
func (r *AssetRepository) GetAssetByUserAndCoinForUpdate(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return r.getByUserAndCoin(ctx, q, userID, coinID, true)
}

// ListAssetsByUserID returns every position a user holds.
func (r *AssetRepository) ListAssetsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Asset, error) {
	assets := []domain.Asset{}
	query := `SELECT ` + assetColumns + ` FROM assets WHERE user_id = $1 ORDER BY coin_id`
	if err := q.SelectContext(ctx, &assets, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list assets for user %d: %w", userID, err)
	}
	return assets, nil
}

// UpdateAsset stores quantity and buy price of an existing position.
func (r *AssetRepository) UpdateAsset(ctx context.Context, q repository.DBExecutor, asset *domain.Asset) error {
	asset.UpdatedAt = time.Now().UTC()
	query := `UPDATE assets SET quantity = $1, buy_price = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, asset.Quantity, asset.BuyPrice, asset.UpdatedAt, asset.ID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("asset %d: %w", asset.ID, util.ErrInsufficientQuantity)
		}
		return fmt.Errorf("failed to update asset %d: %w", asset.ID, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected after updating asset %d: %w", asset.ID, err)
	} else if n == 0 {
		return util.ErrAssetNotFound
	}
	return nil
}

// DeleteAsset removes a position.
func (r *AssetRepository) DeleteAsset(ctx context.Context, q repository.DBExecutor, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM assets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete asset %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected after deleting asset %d: %w", id, err)
	} else if n == 0 {
		return util.ErrAssetNotFound
	}
	return nil
}
