// internal/service/asset_service.go
package service

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
)

// AssetService is the read side of the position book.
type AssetService interface {
	GetAsset(ctx context.Context, user *domain.User, assetID int64) (*domain.Asset, error)
	GetUserAssetForCoin(ctx context.Context, user *domain.User, coinID string) (*domain.Asset, error)
	ListUserAssets(ctx context.Context, user *domain.User) ([]domain.Asset, error)
}

type assetService struct {
	dbExecutor repository.DBExecutor
	book       *PositionBook
}

// NewAssetService creates a new instance of AssetService.
func NewAssetService(dbExecutor repository.DBExecutor, book *PositionBook) AssetService {
	return &assetService{dbExecutor: dbExecutor, book: book}
}

func (s *assetService) GetAsset(ctx context.Context, user *domain.User, assetID int64) (*domain.Asset, error) {
	asset, err := s.book.GetByID(ctx, s.dbExecutor, assetID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if asset.UserID != user.ID {
		return nil, fmt.Errorf("get asset %d: %w", assetID, util.ErrAssetNotFound)
	}
	return asset, nil
}

func (s *assetService) GetUserAssetForCoin(ctx context.Context, user *domain.User, coinID string) (*domain.Asset, error) {
	asset, err := s.book.GetByUserAndCoin(ctx, s.dbExecutor, user.ID, coinID)
	if err != nil {
		return nil, fmt.Errorf("get asset for coin %s: %w", coinID, err)
	}
	return asset, nil
}

func (s *assetService) ListUserAssets(ctx context.Context, user *domain.User) ([]domain.Asset, error) {
	assets, err := s.book.ListByUser(ctx, s.dbExecutor, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}
	return assets, nil
}
