// internal/repository/postgres/withdrawal_pg.go
package postgres

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
)

const withdrawalColumns = `id, user_id, amount, status, date`

// WithdrawalRepository implements repository.WithdrawalRepository for PostgreSQL.
type WithdrawalRepository struct{}

// NewWithdrawalRepository creates a new WithdrawalRepository.
func NewWithdrawalRepository() repository.WithdrawalRepository {
	return &WithdrawalRepository{}
}

// CreateWithdrawal inserts a withdrawal request.
func (r *WithdrawalRepository) CreateWithdrawal(ctx context.Context, q repository.DBExecutor, w *domain.Withdrawal) error {
	query := `INSERT INTO withdrawals (user_id, amount, status, date) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := q.QueryRowContext(ctx, query, w.UserID, w.Amount, w.Status, w.Date).Scan(&w.ID); err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *WithdrawalRepository) get(ctx context.Context, q repository.DBExecutor, id int64, lock bool) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	if err := q.GetContext(ctx, &w, query, id); err != nil {
		if isNoRows(err) {
			return nil, util.ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal by ID %d: %w", id, err)
	}
	return &w, nil
}

// GetWithdrawalByID retrieves a withdrawal.
func (r *WithdrawalRepository) GetWithdrawalByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	return r.get(ctx, q, id, false)
}

// GetWithdrawalByIDForUpdate retrieves and locks a withdrawal.
func (r *WithdrawalRepository) GetWithdrawalByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	return r.get(ctx, q, id, true)
}

// ListWithdrawalsByUserID returns a user's withdrawals, newest first.
func (r *WithdrawalRepository) ListWithdrawalsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Withdrawal, error) {
	out := []domain.Withdrawal{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals WHERE user_id = $1 ORDER BY date DESC, id DESC`
	if err := q.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list withdrawals for user %d: %w", userID, err)
	}
	return out, nil
}

// ListWithdrawals returns every withdrawal, newest first.
func (r *WithdrawalRepository) ListWithdrawals(ctx context.Context, q repository.DBExecutor) ([]domain.Withdrawal, error) {
	out := []domain.Withdrawal{}
	query := `SELECT ` + withdrawalColumns + ` FROM withdrawals ORDER BY date DESC, id DESC`
	if err := q.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return out, nil
}

// UpdateWithdrawalStatus changes a withdrawal's status.
func (r *WithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.WithdrawalStatus) error {
	result, err := q.ExecContext(ctx, `UPDATE withdrawals SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of withdrawal %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected after updating withdrawal %d: %w", id, err)
	} else if n == 0 {
		return util.ErrWithdrawalNotFound
	}
	return nil
}
