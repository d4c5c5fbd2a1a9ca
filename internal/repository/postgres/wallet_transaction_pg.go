// internal/repository/postgres/wallet_transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
)

// WalletTransactionRepository implements repository.WalletTransactionRepository for PostgreSQL.
type WalletTransactionRepository struct{}

// NewWalletTransactionRepository creates a new WalletTransactionRepository.
func NewWalletTransactionRepository() repository.WalletTransactionRepository {
	return &WalletTransactionRepository{}
}

// CreateWalletTransaction appends a ledger entry using the provided DBExecutor.
func (r *WalletTransactionRepository) CreateWalletTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.WalletTransaction) error {
	query := `INSERT INTO wallet_transactions (wallet_id, type, transfer_id, purpose, amount, date)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		tx.WalletID,
		tx.Type,
		tx.TransferID,
		tx.Purpose,
		tx.Amount,
		tx.Date,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

// GetWalletTransactionsByWalletID retrieves a paginated list of ledger entries for a wallet.
// It performs two queries: one for the page and one for the total count.
func (r *WalletTransactionRepository) GetWalletTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	entries := []domain.WalletTransaction{}

	query := `
		SELECT id, wallet_id, type, transfer_id, purpose, amount, date
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`
	if err := q.SelectContext(ctx, &entries, query, walletID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wallet transactions for wallet %d: %w", walletID, err)
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`
	if err := q.GetContext(ctx, &totalCount, countQuery, walletID); err != nil {
		return nil, 0, fmt.Errorf("failed to get total wallet transaction count for wallet %d: %w", walletID, err)
	}

	return entries, totalCount, nil
}
