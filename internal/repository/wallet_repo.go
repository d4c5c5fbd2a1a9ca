// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"

	"github.com/shopspring/decimal"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet to the database.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByID retrieves a wallet by its ID.
	GetWalletByID(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletByIDForUpdate retrieves a wallet by its ID and row-locks it until the transaction ends.
	GetWalletByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletByUserID retrieves the wallet owned by userID.
	GetWalletByUserID(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// GetWalletByUserIDForUpdate retrieves the wallet owned by userID and row-locks it.
	GetWalletByUserIDForUpdate(ctx context.Context, q DBExecutor, userID int64) (*domain.Wallet, error)
	// SetWalletBalance stores an already validated balance.
	SetWalletBalance(ctx context.Context, q DBExecutor, walletID int64, balance decimal.Decimal) error
}
