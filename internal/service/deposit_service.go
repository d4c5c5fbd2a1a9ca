// internal/service/deposit_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/payment"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"
	"tradein-settlement/pkg/keylock"

	"github.com/shopspring/decimal"
)

// DepositService tops up wallets through a payment gateway. Funds are credited only after the
// gateway confirms the payment.
type DepositService interface {
	CreatePaymentOrder(ctx context.Context, user *domain.User, amount decimal.Decimal, method domain.PaymentMethod) (*domain.PaymentOrder, *payment.PaymentLink, error)
	ConfirmDeposit(ctx context.Context, user *domain.User, paymentOrderID int64, externalPaymentID string) (*domain.Wallet, error)
}

type depositService struct {
	dbExecutor  repository.DBExecutor
	uow         unitOfWork
	paymentRepo repository.PaymentOrderRepository
	ledger      *WalletLedger
	gateways    map[domain.PaymentMethod]payment.Gateway
	locks       *keylock.KeyedMutex
	timeout     time.Duration
}

// NewDepositService creates a new instance of DepositService.
func NewDepositService(
	tx db.TxFuncs,
	dbExecutor repository.DBExecutor,
	paymentRepo repository.PaymentOrderRepository,
	ledger *WalletLedger,
	gateways map[domain.PaymentMethod]payment.Gateway,
	locks *keylock.KeyedMutex,
	timeout time.Duration,
) DepositService {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &depositService{
		dbExecutor:  dbExecutor,
		uow:         newUnitOfWork(tx),
		paymentRepo: paymentRepo,
		ledger:      ledger,
		gateways:    gateways,
		locks:       locks,
		timeout:     timeout,
	}
}

func (s *depositService) gateway(method domain.PaymentMethod) (payment.Gateway, error) {
	g, ok := s.gateways[method]
	if !ok || g == nil {
		return nil, fmt.Errorf("payment method %q not available: %w", method, util.ErrInvalidInput)
	}
	return g, nil
}

// CreatePaymentOrder stores a PENDING payment order and asks the gateway for a payment link.
func (s *depositService) CreatePaymentOrder(ctx context.Context, user *domain.User, amount decimal.Decimal, method domain.PaymentMethod) (*domain.PaymentOrder, *payment.PaymentLink, error) {
	if !amount.IsPositive() {
		return nil, nil, fmt.Errorf("create payment order: amount must be positive: %w", util.ErrInvalidInput)
	}
	gateway, err := s.gateway(method)
	if err != nil {
		return nil, nil, fmt.Errorf("create payment order: %w", err)
	}

	if v, ok := gateway.(payment.AmountValidator); ok {
		if err := v.ValidateAmount(amount); err != nil {
			return nil, nil, fmt.Errorf("create payment order: %w", err)
		}
	}

	order := domain.NewPaymentOrder(user.ID, amount, method)
	if err := s.paymentRepo.CreatePaymentOrder(ctx, s.dbExecutor, order); err != nil {
		return nil, nil, fmt.Errorf("create payment order: %w", err)
	}

	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	link, err := gateway.CreatePaymentLink(gctx, order, user)
	if err != nil {
		order.Status = domain.PaymentOrderFailure
		if uerr := s.paymentRepo.UpdatePaymentOrder(ctx, s.dbExecutor, order); uerr != nil {
			util.GetLogger().Error("Failed to mark payment order failed", "payment_order_id", order.ID, "error", uerr)
		}
		return nil, nil, fmt.Errorf("create payment order: %w", err)
	}

	order.ExternalRef = link.ExternalRef
	if err := s.paymentRepo.UpdatePaymentOrder(ctx, s.dbExecutor, order); err != nil {
		return nil, nil, fmt.Errorf("create payment order: %w", err)
	}
	return order, link, nil
}

// ConfirmDeposit checks the payment with the gateway and credits the wallet once. Orders that are no
// longer PENDING return the wallet unchanged.
func (s *depositService) ConfirmDeposit(ctx context.Context, user *domain.User, paymentOrderID int64, externalPaymentID string) (*domain.Wallet, error) {
	order, err := s.paymentRepo.GetPaymentOrderByID(ctx, s.dbExecutor, paymentOrderID)
	if err != nil {
		return nil, fmt.Errorf("confirm deposit: %w", err)
	}
	if order.UserID != user.ID {
		return nil, fmt.Errorf("confirm deposit %d: %w", paymentOrderID, util.ErrPaymentOrderNotFound)
	}

	paid := false
	if order.Status == domain.PaymentOrderPending {
		gateway, err := s.gateway(order.PaymentMethod)
		if err != nil {
			return nil, fmt.Errorf("confirm deposit: %w", err)
		}
		gctx, cancel := context.WithTimeout(ctx, s.timeout)
		paid, err = gateway.Confirm(gctx, order, externalPaymentID)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("confirm deposit: %w", err)
		}
	}

	unlock := s.locks.Lock(userLockKey(user.ID))
	defer unlock()

	var wallet *domain.Wallet
	err = s.uow.Do(ctx, "confirm deposit", func(q repository.DBExecutor) error {
		locked, err := s.paymentRepo.GetPaymentOrderByIDForUpdate(ctx, q, paymentOrderID)
		if err != nil {
			return fmt.Errorf("confirm deposit: %w", err)
		}
		if locked.Status != domain.PaymentOrderPending {
			wallet, err = s.ledger.GetOrCreateWallet(ctx, q, user.ID)
			return err
		}

		wallet, err = s.ledger.LockWallet(ctx, q, user.ID)
		if err != nil {
			return fmt.Errorf("confirm deposit: %w", err)
		}

		if paid {
			locked.Status = domain.PaymentOrderSuccess
			wallet, err = s.ledger.Credit(ctx, q, wallet, locked.Amount, domain.LedgerEntry{
				Type:       domain.WalletTransactionAddMoney,
				TransferID: payment.ExternalOrderID(locked),
				Purpose:    "deposit via " + string(locked.PaymentMethod),
			})
			if err != nil {
				return fmt.Errorf("confirm deposit: %w", err)
			}
		} else {
			locked.Status = domain.PaymentOrderFailure
		}
		if externalPaymentID != "" {
			locked.ExternalRef = externalPaymentID
		}
		if err := s.paymentRepo.UpdatePaymentOrder(ctx, q, locked); err != nil {
			return fmt.Errorf("confirm deposit: %w", err)
		}
		order = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.GetLogger().Info("Deposit processed", "payment_order_id", order.ID, "user_id", user.ID, "status", order.Status)
	return wallet, nil
}
