// internal/repository/postgres/coin_pg.go
package postgres

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
)

const coinColumns = `id, symbol, name, image, current_price, market_cap, market_cap_rank, total_volume,
	high_24h, low_24h, price_change_24h, price_change_percentage_24h, last_updated`

// CoinRepository implements repository.CoinRepository for PostgreSQL.
type CoinRepository struct{}

// NewCoinRepository creates a new CoinRepository.
func NewCoinRepository() repository.CoinRepository {
	return &CoinRepository{}
}

// UpsertCoin inserts a snapshot or refreshes the existing row for the same coin id.
func (r *CoinRepository) UpsertCoin(ctx context.Context, q repository.DBExecutor, c *domain.Coin) error {
	query := `INSERT INTO coins (` + coinColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			symbol = CASE WHEN EXCLUDED.symbol = '' THEN coins.symbol ELSE EXCLUDED.symbol END,
			name = CASE WHEN EXCLUDED.name = '' THEN coins.name ELSE EXCLUDED.name END,
			image = CASE WHEN EXCLUDED.image = '' THEN coins.image ELSE EXCLUDED.image END,
			current_price = EXCLUDED.current_price,
			market_cap = EXCLUDED.market_cap,
			market_cap_rank = EXCLUDED.market_cap_rank,
			total_volume = EXCLUDED.total_volume,
			high_24h = EXCLUDED.high_24h,
			low_24h = EXCLUDED.low_24h,
			price_change_24h = EXCLUDED.price_change_24h,
			price_change_percentage_24h = EXCLUDED.price_change_percentage_24h,
			last_updated = EXCLUDED.last_updated`
	_, err := q.ExecContext(ctx, query,
		c.ID, c.Symbol, c.Name, c.Image, c.CurrentPrice, c.MarketCap, c.MarketCapRank, c.TotalVolume,
		c.High24h, c.Low24h, c.PriceChange24h, c.PriceChangePercentage24h, c.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert coin %s: %w", c.ID, err)
	}
	return nil
}

// GetCoinByID retrieves the cached snapshot of a coin.
func (r *CoinRepository) GetCoinByID(ctx context.Context, q repository.DBExecutor, id string) (*domain.Coin, error) {
	var c domain.Coin
	if err := q.GetContext(ctx, &c, `SELECT `+coinColumns+` FROM coins WHERE id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, util.ErrCoinNotFound
		}
		return nil, fmt.Errorf("failed to get coin %s: %w", id, err)
	}
	return &c, nil
}

// ListCoins returns cached snapshots ordered by market cap rank.
func (r *CoinRepository) ListCoins(ctx context.Context, q repository.DBExecutor, limit, offset int) ([]domain.Coin, error) {
	coins := []domain.Coin{}
	query := `SELECT ` + coinColumns + ` FROM coins ORDER BY market_cap_rank ASC, id ASC LIMIT $1 OFFSET $2`
	if err := q.SelectContext(ctx, &coins, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}
	return coins, nil
}
