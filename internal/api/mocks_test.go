// internal/api/mocks_test.go
package api

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/payment"
	"tradein-settlement/internal/service"
	"tradein-settlement/internal/util"
)

// stubAuth maps bearer tokens straight to users.
type stubAuth map[string]*domain.User

func (s stubAuth) Authenticate(_ context.Context, bearer string) (*domain.User, error) {
	user, ok := s[strings.TrimPrefix(bearer, "Bearer ")]
	if !ok {
		return nil, util.ErrUnauthorized
	}
	return user, nil
}

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) ProcessOrder(ctx context.Context, user *domain.User, req service.OrderRequest) (*domain.Order, error) {
	args := m.Called(ctx, user, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, user *domain.User, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, user, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, user *domain.User, filter domain.OrderFilter) ([]domain.Order, error) {
	args := m.Called(ctx, user, filter)
	return args.Get(0).([]domain.Order), args.Error(1)
}

type MockWalletService struct{ mock.Mock }

func (m *MockWalletService) GetUserWallet(ctx context.Context, user *domain.User) (*domain.Wallet, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) GetBalance(ctx context.Context, walletID int64) (*domain.Wallet, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) Transfer(ctx context.Context, sender *domain.User, receiverWalletID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	args := m.Called(ctx, sender, receiverWalletID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletService) GetTransactionHistory(ctx context.Context, user *domain.User, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	args := m.Called(ctx, user, limit, offset)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockWalletService) CreateUserAndWallet(ctx context.Context, email, fullName string, role domain.Role) (*domain.User, *domain.Wallet, error) {
	args := m.Called(ctx, email, fullName, role)
	return args.Get(0).(*domain.User), args.Get(1).(*domain.Wallet), args.Error(2)
}

type MockWithdrawalService struct{ mock.Mock }

func (m *MockWithdrawalService) Request(ctx context.Context, user *domain.User, amount decimal.Decimal) (*domain.Withdrawal, error) {
	args := m.Called(ctx, user, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalService) Decide(ctx context.Context, withdrawalID int64, accept bool) (*domain.Withdrawal, error) {
	args := m.Called(ctx, withdrawalID, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalService) History(ctx context.Context, user *domain.User) ([]domain.Withdrawal, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

func (m *MockWithdrawalService) ListAll(ctx context.Context) ([]domain.Withdrawal, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Withdrawal), args.Error(1)
}

type MockDepositService struct{ mock.Mock }

func (m *MockDepositService) CreatePaymentOrder(ctx context.Context, user *domain.User, amount decimal.Decimal, method domain.PaymentMethod) (*domain.PaymentOrder, *payment.PaymentLink, error) {
	args := m.Called(ctx, user, amount, method)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.PaymentOrder), args.Get(1).(*payment.PaymentLink), args.Error(2)
}

func (m *MockDepositService) ConfirmDeposit(ctx context.Context, user *domain.User, paymentOrderID int64, externalPaymentID string) (*domain.Wallet, error) {
	args := m.Called(ctx, user, paymentOrderID, externalPaymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

type MockAssetService struct{ mock.Mock }

func (m *MockAssetService) GetAsset(ctx context.Context, user *domain.User, assetID int64) (*domain.Asset, error) {
	args := m.Called(ctx, user, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) GetUserAssetForCoin(ctx context.Context, user *domain.User, coinID string) (*domain.Asset, error) {
	args := m.Called(ctx, user, coinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetService) ListUserAssets(ctx context.Context, user *domain.User) ([]domain.Asset, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]domain.Asset), args.Error(1)
}

type MockCoinReader struct{ mock.Mock }

func (m *MockCoinReader) GetCoin(ctx context.Context, coinID string) (*domain.Coin, error) {
	args := m.Called(ctx, coinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coin), args.Error(1)
}

func (m *MockCoinReader) ListCoins(ctx context.Context, limit, offset int) ([]domain.Coin, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Coin), args.Error(1)
}
