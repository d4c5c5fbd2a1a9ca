// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"
	"tradein-settlement/pkg/keylock"

	"github.com/shopspring/decimal"
)

// WalletService defines the interface for wallet-related business logic.
type WalletService interface {
	GetUserWallet(ctx context.Context, user *domain.User) (*domain.Wallet, error)
	GetBalance(ctx context.Context, walletID int64) (*domain.Wallet, error)
	Transfer(ctx context.Context, sender *domain.User, receiverWalletID int64, amount decimal.Decimal) (*domain.Wallet, error)
	GetTransactionHistory(ctx context.Context, user *domain.User, limit, offset int) ([]domain.WalletTransaction, int64, error)
	CreateUserAndWallet(ctx context.Context, email, fullName string, role domain.Role) (*domain.User, *domain.Wallet, error)
}

// walletService implements the WalletService interface.
type walletService struct {
	dbExecutor repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	uow        unitOfWork
	userRepo   repository.UserRepository
	ledger     *WalletLedger
	locks      *keylock.KeyedMutex
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	tx db.TxFuncs,
	dbExecutor repository.DBExecutor,
	userRepo repository.UserRepository,
	ledger *WalletLedger,
	locks *keylock.KeyedMutex,
) WalletService {
	return &walletService{
		dbExecutor: dbExecutor,
		uow:        newUnitOfWork(tx),
		userRepo:   userRepo,
		ledger:     ledger,
		locks:      locks,
	}
}

// GetUserWallet returns the caller's wallet, creating it on first access.
func (s *walletService) GetUserWallet(ctx context.Context, user *domain.User) (*domain.Wallet, error) {
	var wallet *domain.Wallet
	err := s.uow.Do(ctx, "get user wallet", func(q repository.DBExecutor) error {
		var err error
		wallet, err = s.ledger.GetOrCreateWallet(ctx, q, user.ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get user wallet: %w", err)
	}
	return wallet, nil
}

// GetBalance returns a wallet by id.
func (s *walletService) GetBalance(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	wallet, err := s.ledger.GetWalletByID(ctx, s.dbExecutor, walletID)
	if err != nil {
		return nil, fmt.Errorf("get balance: failed to get wallet %d: %w", walletID, err)
	}
	return wallet, nil
}

// Transfer moves amount from the sender's wallet into receiverWalletID atomically.
func (s *walletService) Transfer(ctx context.Context, sender *domain.User, receiverWalletID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer: amount must be positive: %w", util.ErrInvalidInput)
	}

	receiver, err := s.ledger.GetWalletByID(ctx, s.dbExecutor, receiverWalletID)
	if err != nil {
		return nil, fmt.Errorf("transfer: failed to get destination wallet %d: %w", receiverWalletID, err)
	}

	unlock := s.locks.LockAll(userLockKey(sender.ID), userLockKey(receiver.UserID))
	defer unlock()

	var updated *domain.Wallet
	err = s.uow.Do(ctx, "transfer", func(q repository.DBExecutor) error {
		var err error
		updated, err = s.ledger.Transfer(ctx, q, sender.ID, receiverWalletID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Wallet transfer completed",
		"from_wallet_id", updated.ID, "to_wallet_id", receiverWalletID, "amount", amount.String())
	return updated, nil
}

// GetTransactionHistory retrieves a paginated list of ledger entries for the caller's wallet.
func (s *walletService) GetTransactionHistory(ctx context.Context, user *domain.User, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	wallet, err := s.ledger.wallets.GetWalletByUserID(ctx, s.dbExecutor, user.ID)
	if err != nil {
		if util.IsError(err, util.ErrNotFound) {
			return []domain.WalletTransaction{}, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to check wallet existence: %w", err)
	}

	entries, totalCount, err := s.ledger.History(ctx, s.dbExecutor, wallet.ID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}
	return entries, totalCount, nil
}

// CreateUserAndWallet registers a user together with an empty wallet.
func (s *walletService) CreateUserAndWallet(ctx context.Context, email, fullName string, role domain.Role) (*domain.User, *domain.Wallet, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil, fmt.Errorf("create user and wallet: email is required: %w", util.ErrInvalidInput)
	}

	var (
		user   *domain.User
		wallet *domain.Wallet
	)
	err := s.uow.Do(ctx, "create user and wallet", func(q repository.DBExecutor) error {
		_, err := s.userRepo.GetUserByEmail(ctx, q, email)
		if err == nil {
			return fmt.Errorf("create user and wallet: user with email '%s': %w", email, util.ErrDuplicateEntry)
		}
		if !errors.Is(err, util.ErrNotFound) {
			return fmt.Errorf("create user and wallet: failed to check existing user: %w", err)
		}

		user = domain.NewUser(email, fullName)
		if role != "" {
			user.Role = role
		}
		if err := s.userRepo.CreateUser(ctx, q, user); err != nil {
			return fmt.Errorf("create user and wallet: failed to create user: %w", err)
		}

		wallet, err = s.ledger.GetOrCreateWallet(ctx, q, user.ID)
		if err != nil {
			return fmt.Errorf("create user and wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return user, wallet, nil
}
