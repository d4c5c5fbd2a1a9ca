// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/payment"
	"tradein-settlement/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It embeds MockDBExecutor so it can be used as the transaction's repository.DBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, q repository.DBExecutor, email string) (*domain.User, error) {
	args := m.Called(ctx, q, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) wallet(args mock.Arguments) (*domain.Wallet, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	return m.wallet(m.Called(ctx, q, id))
}

func (m *MockWalletRepository) GetWalletByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	return m.wallet(m.Called(ctx, q, id))
}

func (m *MockWalletRepository) GetWalletByUserID(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return m.wallet(m.Called(ctx, q, userID))
}

func (m *MockWalletRepository) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return m.wallet(m.Called(ctx, q, userID))
}

func (m *MockWalletRepository) SetWalletBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	args := m.Called(ctx, q, walletID, balance)
	return args.Error(0)
}

// MockWalletTransactionRepository is a mock implementation of repository.WalletTransactionRepository.
type MockWalletTransactionRepository struct {
	mock.Mock
}

func (m *MockWalletTransactionRepository) CreateWalletTransaction(ctx context.Context, q repository.DBExecutor, tx *domain.WalletTransaction) error {
	args := m.Called(ctx, q, tx)
	return args.Error(0)
}

func (m *MockWalletTransactionRepository) GetWalletTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	args := m.Called(ctx, q, walletID, limit, offset)
	return args.Get(0).([]domain.WalletTransaction), args.Get(1).(int64), args.Error(2)
}

// MockAssetRepository is a mock implementation of repository.AssetRepository.
type MockAssetRepository struct {
	mock.Mock
}

func (m *MockAssetRepository) asset(args mock.Arguments) (*domain.Asset, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) CreateAsset(ctx context.Context, q repository.DBExecutor, asset *domain.Asset) error {
	return m.Called(ctx, q, asset).Error(0)
}

func (m *MockAssetRepository) GetAssetByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Asset, error) {
	return m.asset(m.Called(ctx, q, id))
}

func (m *MockAssetRepository) GetAssetByUserAndCoin(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return m.asset(m.Called(ctx, q, userID, coinID))
}

func (m *MockAssetRepository) GetAssetByUserAndCoinForUpdate(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return m.asset(m.Called(ctx, q, userID, coinID))
}

func (m *MockAssetRepository) ListAssetsByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Asset, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.Asset), args.Error(1)
}

func (m *MockAssetRepository) UpdateAsset(ctx context.Context, q repository.DBExecutor, asset *domain.Asset) error {
	return m.Called(ctx, q, asset).Error(0)
}

func (m *MockAssetRepository) DeleteAsset(ctx context.Context, q repository.DBExecutor, id int64) error {
	return m.Called(ctx, q, id).Error(0)
}

// MockGateway is a mock implementation of payment.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePaymentLink(ctx context.Context, order *domain.PaymentOrder, user *domain.User) (*payment.PaymentLink, error) {
	args := m.Called(ctx, order, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.PaymentLink), args.Error(1)
}

func (m *MockGateway) Confirm(ctx context.Context, order *domain.PaymentOrder, externalPaymentID string) (bool, error) {
	args := m.Called(ctx, order, externalPaymentID)
	return args.Bool(0), args.Error(1)
}
