// internal/repository/wallet_transaction_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// WalletTransactionRepository stores the append-only wallet ledger.
type WalletTransactionRepository interface {
	// CreateWalletTransaction appends a ledger entry.
	CreateWalletTransaction(ctx context.Context, q DBExecutor, tx *domain.WalletTransaction) error
	// GetWalletTransactionsByWalletID returns a page of entries, newest first, and the total count.
	GetWalletTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, limit, offset int) ([]domain.WalletTransaction, int64, error)
}
