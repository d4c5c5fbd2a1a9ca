// internal/service/withdrawal_service.go
package service

import (
	"context"
	"fmt"
	"strconv"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"
	"tradein-settlement/pkg/keylock"

	"github.com/shopspring/decimal"
)

// WithdrawalService runs the PENDING -> SUCCESS | DECLINED withdrawal workflow.
// Funds leave the wallet when the withdrawal is requested; a decline returns them.
type WithdrawalService interface {
	Request(ctx context.Context, user *domain.User, amount decimal.Decimal) (*domain.Withdrawal, error)
	Decide(ctx context.Context, withdrawalID int64, accept bool) (*domain.Withdrawal, error)
	History(ctx context.Context, user *domain.User) ([]domain.Withdrawal, error)
	ListAll(ctx context.Context) ([]domain.Withdrawal, error)
}

type withdrawalService struct {
	dbExecutor     repository.DBExecutor
	uow            unitOfWork
	withdrawalRepo repository.WithdrawalRepository
	ledger         *WalletLedger
	locks          *keylock.KeyedMutex
}

// NewWithdrawalService creates a new instance of WithdrawalService.
func NewWithdrawalService(
	tx db.TxFuncs,
	dbExecutor repository.DBExecutor,
	withdrawalRepo repository.WithdrawalRepository,
	ledger *WalletLedger,
	locks *keylock.KeyedMutex,
) WithdrawalService {
	return &withdrawalService{
		dbExecutor:     dbExecutor,
		uow:            newUnitOfWork(tx),
		withdrawalRepo: withdrawalRepo,
		ledger:         ledger,
		locks:          locks,
	}
}

func withdrawalTransferID(id int64) string {
	return "withdrawal-" + strconv.FormatInt(id, 10)
}

// Request creates a PENDING withdrawal and debits the wallet in the same transaction.
func (s *withdrawalService) Request(ctx context.Context, user *domain.User, amount decimal.Decimal) (*domain.Withdrawal, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("request withdrawal: amount must be positive: %w", util.ErrInvalidInput)
	}

	unlock := s.locks.Lock(userLockKey(user.ID))
	defer unlock()

	var withdrawal *domain.Withdrawal
	err := s.uow.Do(ctx, "request withdrawal", func(q repository.DBExecutor) error {
		wallet, err := s.ledger.LockWallet(ctx, q, user.ID)
		if err != nil {
			return fmt.Errorf("request withdrawal: %w", err)
		}
		if wallet.Balance.LessThan(amount) {
			return fmt.Errorf("request withdrawal: balance %s, amount %s: %w", wallet.Balance, amount, util.ErrInsufficientFunds)
		}

		withdrawal = domain.NewWithdrawal(user.ID, amount)
		if err := s.withdrawalRepo.CreateWithdrawal(ctx, q, withdrawal); err != nil {
			return fmt.Errorf("request withdrawal: %w", err)
		}

		_, err = s.ledger.Credit(ctx, q, wallet, amount.Neg(), domain.LedgerEntry{
			Type:       domain.WalletTransactionWithdrawal,
			TransferID: withdrawalTransferID(withdrawal.ID),
			Purpose:    "withdrawal requested",
		})
		if err != nil {
			return fmt.Errorf("request withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Withdrawal requested", "withdrawal_id", withdrawal.ID, "user_id", user.ID, "amount", amount.String())
	return withdrawal, nil
}

// Decide moves a PENDING withdrawal to SUCCESS or DECLINED. A decline refunds the owner's wallet.
func (s *withdrawalService) Decide(ctx context.Context, withdrawalID int64, accept bool) (*domain.Withdrawal, error) {
	current, err := s.withdrawalRepo.GetWithdrawalByID(ctx, s.dbExecutor, withdrawalID)
	if err != nil {
		return nil, fmt.Errorf("decide withdrawal: %w", err)
	}

	unlock := s.locks.Lock(userLockKey(current.UserID))
	defer unlock()

	var withdrawal *domain.Withdrawal
	err = s.uow.Do(ctx, "decide withdrawal", func(q repository.DBExecutor) error {
		var err error
		withdrawal, err = s.withdrawalRepo.GetWithdrawalByIDForUpdate(ctx, q, withdrawalID)
		if err != nil {
			return fmt.Errorf("decide withdrawal: %w", err)
		}
		if withdrawal.Status != domain.WithdrawalStatusPending {
			return fmt.Errorf("decide withdrawal %d (%s): %w", withdrawalID, withdrawal.Status, util.ErrAlreadyProcessed)
		}

		if accept {
			withdrawal.Status = domain.WithdrawalStatusSuccess
		} else {
			withdrawal.Status = domain.WithdrawalStatusDeclined
			wallet, err := s.ledger.LockWallet(ctx, q, withdrawal.UserID)
			if err != nil {
				return fmt.Errorf("decide withdrawal: %w", err)
			}
			_, err = s.ledger.Credit(ctx, q, wallet, withdrawal.Amount, domain.LedgerEntry{
				Type:       domain.WalletTransactionWithdrawal,
				TransferID: withdrawalTransferID(withdrawal.ID),
				Purpose:    "withdrawal declined",
			})
			if err != nil {
				return fmt.Errorf("decide withdrawal: %w", err)
			}
		}

		if err := s.withdrawalRepo.UpdateWithdrawalStatus(ctx, q, withdrawal.ID, withdrawal.Status); err != nil {
			return fmt.Errorf("decide withdrawal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Withdrawal decided", "withdrawal_id", withdrawal.ID, "status", withdrawal.Status)
	return withdrawal, nil
}

// History returns the user's withdrawals, newest first.
func (s *withdrawalService) History(ctx context.Context, user *domain.User) ([]domain.Withdrawal, error) {
	out, err := s.withdrawalRepo.ListWithdrawalsByUserID(ctx, s.dbExecutor, user.ID)
	if err != nil {
		return nil, fmt.Errorf("withdrawal history: %w", err)
	}
	return out, nil
}

// ListAll returns every withdrawal. Admin only.
func (s *withdrawalService) ListAll(ctx context.Context) ([]domain.Withdrawal, error) {
	out, err := s.withdrawalRepo.ListWithdrawals(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("list withdrawals: %w", err)
	}
	return out, nil
}
