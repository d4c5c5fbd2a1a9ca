// internal/service/fakes_test.go
package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"sync"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"

	"github.com/shopspring/decimal"
)

var errNoSQL = errors.New("memStore: raw SQL not supported")

// memExecutor satisfies repository.DBExecutor; the in-memory repositories never issue SQL.
type memExecutor struct{}

func (memExecutor) GetContext(context.Context, interface{}, string, ...interface{}) error {
	return errNoSQL
}

func (memExecutor) SelectContext(context.Context, interface{}, string, ...interface{}) error {
	return errNoSQL
}

func (memExecutor) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (memExecutor) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

type memData struct {
	seq         int64
	users       map[int64]domain.User
	wallets     map[int64]domain.Wallet
	entries     []domain.WalletTransaction
	assets      map[int64]domain.Asset
	orders      map[int64]domain.Order
	items       map[int64]domain.OrderItem // by order id
	withdrawals map[int64]domain.Withdrawal
	payments    map[int64]domain.PaymentOrder
}

func newMemData() memData {
	return memData{
		users:       map[int64]domain.User{},
		wallets:     map[int64]domain.Wallet{},
		assets:      map[int64]domain.Asset{},
		orders:      map[int64]domain.Order{},
		items:       map[int64]domain.OrderItem{},
		withdrawals: map[int64]domain.Withdrawal{},
		payments:    map[int64]domain.PaymentOrder{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (d memData) clone() memData {
	return memData{
		seq:         d.seq,
		users:       cloneMap(d.users),
		wallets:     cloneMap(d.wallets),
		entries:     append([]domain.WalletTransaction(nil), d.entries...),
		assets:      cloneMap(d.assets),
		orders:      cloneMap(d.orders),
		items:       cloneMap(d.items),
		withdrawals: cloneMap(d.withdrawals),
		payments:    cloneMap(d.payments),
	}
}

// memStore is an in-memory Ledger Store. Transactions are serialized and rolled back by restoring
// a snapshot, which gives the same all-or-nothing behaviour as the Postgres store.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex
	data memData

	failMu sync.Mutex
	fail   map[string]error
}

func newMemStore() *memStore {
	return &memStore{data: newMemData(), fail: map[string]error{}}
}

// failOn makes the next call of op return err.
func (s *memStore) failOn(op string, err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.fail[op] = err
}

func (s *memStore) injected(op string) error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	err := s.fail[op]
	delete(s.fail, op)
	return err
}

func (s *memStore) nextID() int64 {
	s.data.seq++
	return s.data.seq
}

type memTx struct {
	memExecutor
	store    *memStore
	snapshot memData
	done     bool
}

func (t *memTx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *memTx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.snapshot
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

// txFuncs returns transaction lifecycle functions bound to the store.
func (s *memStore) txFuncs() db.TxFuncs {
	return db.TxFuncs{
		Begin: func(ctx context.Context, _ db.DBTxBeginner) (db.TxController, error) {
			if err := s.injected("Begin"); err != nil {
				return nil, err
			}
			s.txMu.Lock()
			s.mu.Lock()
			snap := s.data.clone()
			s.mu.Unlock()
			return &memTx{store: s, snapshot: snap}, nil
		},
		Commit:   db.CommitTx,
		Rollback: db.RollbackTx,
	}
}

// --- seeding and inspection helpers ---

func (s *memStore) addUser(email string, role domain.Role) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := domain.NewUser(email, email)
	u.Role = role
	u.ID = s.nextID()
	s.data.users[u.ID] = *u
	return u
}

func (s *memStore) fund(userID int64, balance string) *domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, w := range s.data.wallets {
		if w.UserID == userID {
			w.Balance = decimal.RequireFromString(balance)
			s.data.wallets[id] = w
			return &w
		}
	}
	w := domain.NewWallet(userID)
	w.ID = s.nextID()
	w.Balance = decimal.RequireFromString(balance)
	s.data.wallets[w.ID] = *w
	return w
}

func (s *memStore) balance(userID int64) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.data.wallets {
		if w.UserID == userID {
			return w.Balance
		}
	}
	return decimal.Zero
}

func (s *memStore) position(userID int64, coinID string) *domain.Asset {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.data.assets {
		if a.UserID == userID && a.CoinID == coinID {
			return &a
		}
	}
	return nil
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.orders)
}

func (s *memStore) ledgerEntries(walletID int64) []domain.WalletTransaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.WalletTransaction
	for _, e := range s.data.entries {
		if e.WalletID == walletID {
			out = append(out, e)
		}
	}
	return out
}

// --- repository.UserRepository ---

type memUsers struct{ s *memStore }

func (r memUsers) CreateUser(_ context.Context, _ repository.DBExecutor, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == user.Email {
			return util.ErrDuplicateEntry
		}
	}
	user.ID = r.s.nextID()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r memUsers) GetUserByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.data.users[id]
	if !ok {
		return nil, util.ErrUserNotFound
	}
	return &u, nil
}

func (r memUsers) GetUserByEmail(_ context.Context, _ repository.DBExecutor, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.data.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

// --- repository.WalletRepository ---

type memWallets struct{ s *memStore }

func (r memWallets) CreateWallet(_ context.Context, _ repository.DBExecutor, wallet *domain.Wallet) error {
	if err := r.s.injected("CreateWallet"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.data.wallets {
		if w.UserID == wallet.UserID {
			return util.ErrDuplicateEntry
		}
	}
	wallet.ID = r.s.nextID()
	r.s.data.wallets[wallet.ID] = *wallet
	return nil
}

func (r memWallets) GetWalletByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.wallets[id]
	if !ok {
		return nil, util.ErrWalletNotFound
	}
	return &w, nil
}

func (r memWallets) GetWalletByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	return r.GetWalletByID(ctx, q, id)
}

func (r memWallets) GetWalletByUserID(_ context.Context, _ repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, w := range r.s.data.wallets {
		if w.UserID == userID {
			return &w, nil
		}
	}
	return nil, util.ErrWalletNotFound
}

func (r memWallets) GetWalletByUserIDForUpdate(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	return r.GetWalletByUserID(ctx, q, userID)
}

func (r memWallets) SetWalletBalance(_ context.Context, _ repository.DBExecutor, walletID int64, balance decimal.Decimal) error {
	if err := r.s.injected("SetWalletBalance"); err != nil {
		return err
	}
	if balance.IsNegative() {
		return util.ErrInsufficientFunds
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.wallets[walletID]
	if !ok {
		return util.ErrWalletNotFound
	}
	w.Balance = balance
	r.s.data.wallets[walletID] = w
	return nil
}

// --- repository.WalletTransactionRepository ---

type memEntries struct{ s *memStore }

func (r memEntries) CreateWalletTransaction(_ context.Context, _ repository.DBExecutor, tx *domain.WalletTransaction) error {
	if err := r.s.injected("CreateWalletTransaction"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	tx.ID = r.s.nextID()
	r.s.data.entries = append(r.s.data.entries, *tx)
	return nil
}

func (r memEntries) GetWalletTransactionsByWalletID(_ context.Context, _ repository.DBExecutor, walletID int64, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []domain.WalletTransaction
	for i := len(r.s.data.entries) - 1; i >= 0; i-- {
		if e := r.s.data.entries[i]; e.WalletID == walletID {
			all = append(all, e)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return []domain.WalletTransaction{}, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// --- repository.AssetRepository ---

type memAssets struct{ s *memStore }

func (r memAssets) CreateAsset(_ context.Context, _ repository.DBExecutor, asset *domain.Asset) error {
	if err := r.s.injected("CreateAsset"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.assets {
		if a.UserID == asset.UserID && a.CoinID == asset.CoinID {
			return util.ErrDuplicateEntry
		}
	}
	asset.ID = r.s.nextID()
	r.s.data.assets[asset.ID] = *asset
	return nil
}

func (r memAssets) GetAssetByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.data.assets[id]
	if !ok {
		return nil, util.ErrAssetNotFound
	}
	return &a, nil
}

func (r memAssets) GetAssetByUserAndCoin(_ context.Context, _ repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.data.assets {
		if a.UserID == userID && a.CoinID == coinID {
			return &a, nil
		}
	}
	return nil, util.ErrAssetNotFound
}

func (r memAssets) GetAssetByUserAndCoinForUpdate(ctx context.Context, q repository.DBExecutor, userID int64, coinID string) (*domain.Asset, error) {
	return r.GetAssetByUserAndCoin(ctx, q, userID, coinID)
}

func (r memAssets) ListAssetsByUserID(_ context.Context, _ repository.DBExecutor, userID int64) ([]domain.Asset, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Asset{}
	for _, a := range r.s.data.assets {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CoinID < out[j].CoinID })
	return out, nil
}

func (r memAssets) UpdateAsset(_ context.Context, _ repository.DBExecutor, asset *domain.Asset) error {
	if err := r.s.injected("UpdateAsset"); err != nil {
		return err
	}
	if asset.Quantity.IsNegative() {
		return util.ErrInsufficientQuantity
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.assets[asset.ID]; !ok {
		return util.ErrAssetNotFound
	}
	r.s.data.assets[asset.ID] = *asset
	return nil
}

func (r memAssets) DeleteAsset(_ context.Context, _ repository.DBExecutor, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.assets[id]; !ok {
		return util.ErrAssetNotFound
	}
	delete(r.s.data.assets, id)
	return nil
}

// --- repository.OrderRepository ---

type memOrders struct{ s *memStore }

func (r memOrders) withItem(o domain.Order) domain.Order {
	item := r.s.data.items[o.ID]
	o.Item = &item
	return o
}

func (r memOrders) CreateOrder(_ context.Context, _ repository.DBExecutor, order *domain.Order) error {
	if err := r.s.injected("CreateOrder"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if order.IdempotencyKey != nil {
		for _, o := range r.s.data.orders {
			if o.UserID == order.UserID && o.IdempotencyKey != nil && *o.IdempotencyKey == *order.IdempotencyKey {
				return util.ErrDuplicateEntry
			}
		}
	}
	order.ID = r.s.nextID()
	order.Item.ID = r.s.nextID()
	order.Item.OrderID = order.ID
	stored := *order
	stored.Item = nil
	r.s.data.orders[order.ID] = stored
	r.s.data.items[order.ID] = *order.Item
	return nil
}

func (r memOrders) GetOrderByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return nil, util.ErrOrderNotFound
	}
	o = r.withItem(o)
	return &o, nil
}

func (r memOrders) GetOrderByIdempotencyKey(_ context.Context, _ repository.DBExecutor, userID int64, key string) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.data.orders {
		if o.UserID == userID && o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			o = r.withItem(o)
			return &o, nil
		}
	}
	return nil, util.ErrOrderNotFound
}

func (r memOrders) ListOrdersByUserID(_ context.Context, _ repository.DBExecutor, userID int64, filter domain.OrderFilter) ([]domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Order{}
	for _, o := range r.s.data.orders {
		o = r.withItem(o)
		if o.UserID != userID {
			continue
		}
		if filter.OrderType != "" && o.OrderType != filter.OrderType {
			continue
		}
		if filter.CoinID != "" && o.Item.CoinID != filter.CoinID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memOrders) UpdateOrderStatus(_ context.Context, _ repository.DBExecutor, id int64, status domain.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.data.orders[id]
	if !ok {
		return util.ErrOrderNotFound
	}
	o.Status = status
	r.s.data.orders[id] = o
	return nil
}

// --- repository.WithdrawalRepository ---

type memWithdrawals struct{ s *memStore }

func (r memWithdrawals) CreateWithdrawal(_ context.Context, _ repository.DBExecutor, w *domain.Withdrawal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = r.s.nextID()
	r.s.data.withdrawals[w.ID] = *w
	return nil
}

func (r memWithdrawals) GetWithdrawalByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return nil, util.ErrWithdrawalNotFound
	}
	return &w, nil
}

func (r memWithdrawals) GetWithdrawalByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Withdrawal, error) {
	return r.GetWithdrawalByID(ctx, q, id)
}

func (r memWithdrawals) list(match func(domain.Withdrawal) bool) []domain.Withdrawal {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []domain.Withdrawal{}
	for _, w := range r.s.data.withdrawals {
		if match(w) {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r memWithdrawals) ListWithdrawalsByUserID(_ context.Context, _ repository.DBExecutor, userID int64) ([]domain.Withdrawal, error) {
	return r.list(func(w domain.Withdrawal) bool { return w.UserID == userID }), nil
}

func (r memWithdrawals) ListWithdrawals(_ context.Context, _ repository.DBExecutor) ([]domain.Withdrawal, error) {
	return r.list(func(domain.Withdrawal) bool { return true }), nil
}

func (r memWithdrawals) UpdateWithdrawalStatus(_ context.Context, _ repository.DBExecutor, id int64, status domain.WithdrawalStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.data.withdrawals[id]
	if !ok {
		return util.ErrWithdrawalNotFound
	}
	w.Status = status
	r.s.data.withdrawals[id] = w
	return nil
}

// --- repository.PaymentOrderRepository ---

type memPayments struct{ s *memStore }

func (r memPayments) CreatePaymentOrder(_ context.Context, _ repository.DBExecutor, p *domain.PaymentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID()
	r.s.data.payments[p.ID] = *p
	return nil
}

func (r memPayments) GetPaymentOrderByID(_ context.Context, _ repository.DBExecutor, id int64) (*domain.PaymentOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.data.payments[id]
	if !ok {
		return nil, util.ErrPaymentOrderNotFound
	}
	return &p, nil
}

func (r memPayments) GetPaymentOrderByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PaymentOrder, error) {
	return r.GetPaymentOrderByID(ctx, q, id)
}

func (r memPayments) UpdatePaymentOrder(_ context.Context, _ repository.DBExecutor, p *domain.PaymentOrder) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.data.payments[p.ID]; !ok {
		return util.ErrPaymentOrderNotFound
	}
	r.s.data.payments[p.ID] = *p
	return nil
}

// --- price oracle ---

type fakeOracle struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	err    error
	calls  int
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{prices: map[string]decimal.Decimal{}}
}

func (o *fakeOracle) set(coinID, price string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.prices[coinID] = decimal.RequireFromString(price)
}

func (o *fakeOracle) CurrentPrice(_ context.Context, coinID string) (decimal.Decimal, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if o.err != nil {
		return decimal.Zero, o.err
	}
	p, ok := o.prices[coinID]
	if !ok {
		return decimal.Zero, util.ErrCoinNotFound
	}
	return p, nil
}
