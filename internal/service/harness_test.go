// internal/service/harness_test.go
package service

import (
	"context"
	"testing"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/payment"
	"tradein-settlement/pkg/keylock"

	"github.com/shopspring/decimal"
)

// harness wires every service over one memStore.
type harness struct {
	store   *memStore
	oracle  *fakeOracle
	gateway *MockGateway

	ledger      *WalletLedger
	book        *PositionBook
	orders      OrderService
	wallets     WalletService
	withdrawals WithdrawalService
	deposits    DepositService
	assets      AssetService
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, false)
}

func newHarnessWith(t *testing.T, legacyFundsCheck bool) *harness {
	t.Helper()
	store := newMemStore()
	oracle := newFakeOracle()
	gateway := new(MockGateway)
	locks := keylock.New()
	tx := store.txFuncs()
	q := memExecutor{}

	ledger := NewWalletLedger(memWallets{store}, memEntries{store}, legacyFundsCheck)
	book := NewPositionBook(memAssets{store}, decimal.Zero)
	gateways := map[domain.PaymentMethod]payment.Gateway{
		domain.PaymentMethodMidtrans: gateway,
		domain.PaymentMethodSandbox:  payment.SandboxGateway{},
	}

	return &harness{
		store:       store,
		oracle:      oracle,
		gateway:     gateway,
		ledger:      ledger,
		book:        book,
		orders:      NewOrderService(tx, q, memOrders{store}, ledger, book, oracle, locks),
		wallets:     NewWalletService(tx, q, memUsers{store}, ledger, locks),
		withdrawals: NewWithdrawalService(tx, q, memWithdrawals{store}, ledger, locks),
		deposits:    NewDepositService(tx, q, memPayments{store}, ledger, gateways, locks, 0),
		assets:      NewAssetService(q, book),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (h *harness) buy(t *testing.T, user *domain.User, coinID, quantity string) (*domain.Order, error) {
	t.Helper()
	return h.orders.ProcessOrder(context.Background(), user, OrderRequest{CoinID: coinID, Quantity: d(quantity), Side: "BUY"})
}

func (h *harness) sell(t *testing.T, user *domain.User, coinID, quantity string) (*domain.Order, error) {
	t.Helper()
	return h.orders.ProcessOrder(context.Background(), user, OrderRequest{CoinID: coinID, Quantity: d(quantity), Side: "SELL"})
}
