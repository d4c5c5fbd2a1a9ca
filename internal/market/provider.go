// internal/market/provider.go
package market

import (
	"context"

	"tradein-settlement/internal/domain"
)

// Provider fetches a live market snapshot for a coin.
// Implementations return util.ErrCoinNotFound when the upstream does not know the coin.
type Provider interface {
	FetchCoin(ctx context.Context, coinID string) (*domain.Coin, error)
}
