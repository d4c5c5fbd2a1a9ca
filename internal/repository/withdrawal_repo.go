// internal/repository/withdrawal_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// WithdrawalRepository defines the interface for withdrawal data operations.
type WithdrawalRepository interface {
	CreateWithdrawal(ctx context.Context, q DBExecutor, w *domain.Withdrawal) error
	GetWithdrawalByID(ctx context.Context, q DBExecutor, id int64) (*domain.Withdrawal, error)
	// GetWithdrawalByIDForUpdate row-locks the withdrawal so two admins cannot decide it twice.
	GetWithdrawalByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.Withdrawal, error)
	ListWithdrawalsByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Withdrawal, error)
	ListWithdrawals(ctx context.Context, q DBExecutor) ([]domain.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, q DBExecutor, id int64, status domain.WithdrawalStatus) error
}
