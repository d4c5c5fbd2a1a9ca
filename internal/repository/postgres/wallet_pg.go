// internal/repository/postgres/wallet_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
)

const walletColumns = `id, user_id, balance, created_at, updated_at`

// WalletRepository implements repository.WalletRepository for PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet into the database using the provided DBExecutor.
// An existing wallet for the same user yields util.ErrDuplicateEntry.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := `INSERT INTO wallets (user_id, balance, created_at, updated_at)
              VALUES ($1, $2, $3, $4)
              ON CONFLICT (user_id) DO NOTHING RETURNING id`
	err := q.QueryRowContext(ctx, query, wallet.UserID, wallet.Balance, wallet.CreatedAt, wallet.UpdatedAt).Scan(&wallet.ID)
	if err != nil {
		// ON CONFLICT leaves the transaction usable, so the caller may re-read the existing row.
		if isNoRows(err) || isUniqueViolation(err) {
			return fmt.Errorf("wallet for user %d: %w", wallet.UserID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *WalletRepository) getOne(ctx context.Context, q repository.DBExecutor, where string, arg interface{}) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE ` + where
	if err := q.GetContext(ctx, &wallet, query, arg); err != nil {
		if isNoRows(err) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet (%s, %v): %w", where, arg, err)
	}
	return &wallet, nil
}

// GetWalletByID retrieves a wallet by its ID using the provided DBExecutor.
func (r *WalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	return r.getOne(ctx, q, `id = $1`, id)
}

// GetWalletByIDForUpdate locks the wallet row for the rest of the transaction.
func (r *WalletRepository) GetWalletByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	return r.getOne(ctx, q, `id = $1 FOR UPDATE`, id)
}

// GetWalletByUserID retrieves the wallet owned by userID.
func (r *WalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return r.getOne(ctx, q, `user_id = $1`, userID)
}

// GetWalletByUserIDForUpdate retrieves and locks the wallet owned by userID.
func (r *WalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return r.getOne(ctx, q, `user_id = $1 FOR UPDATE`, userID)
}

// SetWalletBalance overwrites the balance of a specific wallet using the provided DBExecutor.
func (r *WalletRepository) SetWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, updated_at = $2 WHERE id = $3`
	result, err := q.ExecContext(ctx, query, balance, time.Now().UTC(), walletID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("wallet %d: %w", walletID, util.ErrInsufficientFunds)
		}
		return fmt.Errorf("failed to update wallet balance for ID %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating wallet balance for ID %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return util.ErrWalletNotFound
	}
	return nil
}
