// internal/service/position_book.go
package service

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
)

// DefaultDustThreshold is the residual market value at or below which a position is closed after a sell.
var DefaultDustThreshold = decimal.NewFromInt(1)

// buyPricePlaces matches the NUMERIC scale of assets.buy_price.
const buyPricePlaces = 8

// PositionBook owns per-user per-coin positions.
type PositionBook struct {
	assets repository.AssetRepository
	dust   decimal.Decimal
}

// NewPositionBook creates a PositionBook. A non-positive dust threshold uses DefaultDustThreshold.
func NewPositionBook(assets repository.AssetRepository, dust decimal.Decimal) *PositionBook {
	if !dust.IsPositive() {
		dust = DefaultDustThreshold
	}
	return &PositionBook{assets: assets, dust: dust}
}

// FindPosition returns the user's row-locked position in coinID, or nil when there is none.
func (b *PositionBook) FindPosition(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	asset, err := b.assets.GetAssetByUserAndCoinForUpdate(ctx, q, userID, coinID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find position: %w", err)
	}
	return asset, nil
}

// Open creates a position entered at price.
func (b *PositionBook) Open(ctx context.Context, q repository.DBExecutor, userID int64, coinID string, quantity, price decimal.Decimal) (*domain.Asset, error) {
	asset := domain.NewAsset(userID, coinID, quantity, price)
	if err := b.assets.CreateAsset(ctx, q, asset); err != nil {
		return nil, fmt.Errorf("open position: %w", err)
	}
	return asset, nil
}

// Adjust adds delta to a position's quantity.
func (b *PositionBook) Adjust(ctx context.Context, q repository.DBExecutor, positionID int64, delta decimal.Decimal) (*domain.Asset, error) {
	asset, err := b.assets.GetAssetByID(ctx, q, positionID)
	if err != nil {
		return nil, fmt.Errorf("adjust position: %w", err)
	}

	newQuantity := asset.Quantity.Add(delta)
	if newQuantity.IsNegative() {
		return nil, fmt.Errorf("adjust position %d by %s: %w", positionID, delta, util.ErrInsufficientQuantity)
	}
	asset.Quantity = newQuantity
	if err := b.assets.UpdateAsset(ctx, q, asset); err != nil {
		return nil, fmt.Errorf("adjust position: %w", err)
	}
	return asset, nil
}

// Accumulate adds a buy of quantity at price to an existing position, moving its buy price to the
// quantity-weighted average.
func (b *PositionBook) Accumulate(ctx context.Context, q repository.DBExecutor, position *domain.Asset, quantity, price decimal.Decimal) (*domain.Asset, error) {
	newQuantity := position.Quantity.Add(quantity)
	updated := *position
	updated.Quantity = newQuantity
	if newQuantity.IsPositive() {
		cost := position.Quantity.Mul(position.BuyPrice).Add(quantity.Mul(price))
		updated.BuyPrice = cost.DivRound(newQuantity, buyPricePlaces)
	}
	if err := b.assets.UpdateAsset(ctx, q, &updated); err != nil {
		return nil, fmt.Errorf("accumulate position: %w", err)
	}
	return &updated, nil
}

// CloseIfDust deletes the position when its value at currentPrice is at or below the dust threshold.
func (b *PositionBook) CloseIfDust(ctx context.Context, q repository.DBExecutor, position *domain.Asset, currentPrice decimal.Decimal) (bool, error) {
	if position.MarketValue(currentPrice).GreaterThan(b.dust) {
		return false, nil
	}
	if err := b.assets.DeleteAsset(ctx, q, position.ID); err != nil {
		return false, fmt.Errorf("close dust position: %w", err)
	}
	return true, nil
}

// GetByID returns a position without locking it.
func (b *PositionBook) GetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Asset, error) {
	return b.assets.GetAssetByID(ctx, q, id)
}

// GetByUserAndCoin returns a position without locking it.
func (b *PositionBook) GetByUserAndCoin(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return b.assets.GetAssetByUserAndCoin(ctx, q, userID, coinID)
}

// ListByUser returns all of a user's positions.
func (b *PositionBook) ListByUser(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Asset, error) {
	return b.assets.ListAssetsByUserID(ctx, q, userID)
}
