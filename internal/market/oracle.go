// internal/market/oracle.go
package market

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
)

// Oracle answers price questions from a Provider and keeps the coins table as a snapshot cache.
type Oracle struct {
	provider Provider
	coins    repository.CoinRepository
	db       repository.DBExecutor
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOracle creates an Oracle. A zero timeout defaults to five seconds.
func NewOracle(provider Provider, coins repository.CoinRepository, db repository.DBExecutor, timeout time.Duration) *Oracle {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Oracle{
		provider: provider,
		coins:    coins,
		db:       db,
		timeout:  timeout,
		logger:   util.GetLogger(),
	}
}

func (o *Oracle) fetch(ctx context.Context, coinID string) (*domain.Coin, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	coin, err := o.provider.FetchCoin(ctx, coinID)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", util.ErrUpstreamUnavailable, err)
	}
	if coin.ID == "" {
		coin.ID = coinID
	}

	if err := o.coins.UpsertCoin(ctx, o.db, coin); err != nil {
		o.logger.Warn("Failed to refresh coin snapshot", "coin_id", coinID, "error", err)
	}
	return coin, nil
}

// CurrentPrice returns a fresh quote. Cached snapshots are never used for pricing.
func (o *Oracle) CurrentPrice(ctx context.Context, coinID string) (decimal.Decimal, error) {
	coin, err := o.fetch(ctx, coinID)
	if err != nil {
		return decimal.Zero, err
	}
	if !coin.CurrentPrice.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: non-positive quote %s for %s", util.ErrUpstreamUnavailable, coin.CurrentPrice, coinID)
	}
	return coin.CurrentPrice, nil
}

// GetCoin returns a fresh snapshot, or the cached one when the upstream is unavailable.
func (o *Oracle) GetCoin(ctx context.Context, coinID string) (*domain.Coin, error) {
	coin, err := o.fetch(ctx, coinID)
	if err == nil {
		return coin, nil
	}
	if !errors.Is(err, util.ErrUpstreamUnavailable) {
		return nil, err
	}

	cached, cacheErr := o.coins.GetCoinByID(ctx, o.db, coinID)
	if cacheErr != nil {
		o.logger.Warn("Coin snapshot unavailable", "coin_id", coinID, "error", cacheErr)
		return nil, err
	}
	o.logger.Info("Serving cached coin snapshot", "coin_id", coinID, "last_updated", cached.LastUpdated)
	return cached, nil
}

// ListCoins pages through cached snapshots.
func (o *Oracle) ListCoins(ctx context.Context, limit, offset int) ([]domain.Coin, error) {
	return o.coins.ListCoins(ctx, o.db, limit, offset)
}
