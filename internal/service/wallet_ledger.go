// internal/service/wallet_ledger.go
package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletLedger owns every wallet balance mutation. Each mutation appends a WalletTransaction
// on the same unit of work. Callers pass the transaction explicitly.
type WalletLedger struct {
	wallets repository.WalletRepository
	entries repository.WalletTransactionRepository

	// legacyFundsCheck rejects a BUY whose post-debit balance is below the order price
	// instead of below zero.
	legacyFundsCheck bool
}

// NewWalletLedger creates a WalletLedger.
func NewWalletLedger(wallets repository.WalletRepository, entries repository.WalletTransactionRepository, legacyFundsCheck bool) *WalletLedger {
	return &WalletLedger{
		wallets:          wallets,
		entries:          entries,
		legacyFundsCheck: legacyFundsCheck,
	}
}

// GetOrCreateWallet returns the user's wallet, inserting a zero-balance one when absent.
func (l *WalletLedger) GetOrCreateWallet(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	wallet, err := l.wallets.GetWalletByUserID(ctx, q, userID)
	if err == nil {
		return wallet, nil
	}
	if !util.IsError(err, util.ErrNotFound) {
		return nil, fmt.Errorf("get or create wallet: %w", err)
	}

	wallet = domain.NewWallet(userID)
	if err := l.wallets.CreateWallet(ctx, q, wallet); err != nil {
		if !util.IsError(err, util.ErrDuplicateEntry) {
			return nil, fmt.Errorf("get or create wallet: failed to create wallet for user %d: %w", userID, err)
		}
		// Created concurrently.
		return l.wallets.GetWalletByUserID(ctx, q, userID)
	}
	return wallet, nil
}

// LockWallet returns the user's wallet row-locked for the rest of the transaction, creating it if needed.
func (l *WalletLedger) LockWallet(ctx context.Context, q repository.DBExecutor, userID int64) (*domain.Wallet, error) {
	if _, err := l.GetOrCreateWallet(ctx, q, userID); err != nil {
		return nil, err
	}
	wallet, err := l.wallets.GetWalletByUserIDForUpdate(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("lock wallet: user %d: %w", userID, err)
	}
	return wallet, nil
}

// GetWalletByID returns a wallet without locking it.
func (l *WalletLedger) GetWalletByID(ctx context.Context, q repository.DBExecutor, walletID int64) (*domain.Wallet, error) {
	return l.wallets.GetWalletByID(ctx, q, walletID)
}

// Credit adds amount (negative for a debit) to wallet and records entry. The wallet must already be
// locked by the caller. Non-negativity is left to the store.
func (l *WalletLedger) Credit(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet, amount decimal.Decimal, entry domain.LedgerEntry) (*domain.Wallet, error) {
	newBalance := wallet.Balance.Add(amount)
	if err := l.wallets.SetWalletBalance(ctx, q, wallet.ID, newBalance); err != nil {
		return nil, fmt.Errorf("credit: failed to update wallet %d: %w", wallet.ID, err)
	}

	if entry.TransferID == "" {
		entry.TransferID = uuid.NewString()
	}
	record := domain.NewWalletTransaction(wallet.ID, entry, amount)
	if err := l.entries.CreateWalletTransaction(ctx, q, record); err != nil {
		return nil, fmt.Errorf("credit: failed to record ledger entry for wallet %d: %w", wallet.ID, err)
	}

	updated := *wallet
	updated.Balance = newBalance
	updated.UpdatedAt = record.Date
	return &updated, nil
}

// Transfer moves amount from the sender's wallet to receiverWalletID and returns the sender's wallet.
// Both wallets are locked in id order, both writes share one transfer id.
func (l *WalletLedger) Transfer(ctx context.Context, q repository.DBExecutor, senderUserID, receiverWalletID int64, amount decimal.Decimal) (*domain.Wallet, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("transfer: amount must be positive: %w", util.ErrInvalidInput)
	}

	sender, err := l.GetOrCreateWallet(ctx, q, senderUserID)
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	if sender.ID == receiverWalletID {
		return nil, util.ErrSameWalletTransfer
	}

	ids := []int64{sender.ID, receiverWalletID}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	locked := make(map[int64]*domain.Wallet, 2)
	for _, id := range ids {
		w, err := l.wallets.GetWalletByIDForUpdate(ctx, q, id)
		if err != nil {
			return nil, fmt.Errorf("transfer: failed to lock wallet %d: %w", id, err)
		}
		locked[id] = w
	}
	sender, receiver := locked[sender.ID], locked[receiverWalletID]

	if sender.Balance.LessThan(amount) {
		return nil, util.ErrInsufficientFunds
	}

	transferID := uuid.NewString()
	updatedSender, err := l.Credit(ctx, q, sender, amount.Neg(), domain.LedgerEntry{
		Type:       domain.WalletTransactionTransfer,
		TransferID: transferID,
		Purpose:    fmt.Sprintf("transfer to wallet %d", receiver.ID),
	})
	if err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	if _, err := l.Credit(ctx, q, receiver, amount, domain.LedgerEntry{
		Type:       domain.WalletTransactionTransfer,
		TransferID: transferID,
		Purpose:    fmt.Sprintf("transfer from wallet %d", sender.ID),
	}); err != nil {
		return nil, fmt.Errorf("transfer: %w", err)
	}
	return updatedSender, nil
}

// SettleOrderPayment applies an order's cash leg to its owner's wallet. A BUY debits the order price
// and fails with ErrInsufficientFunds when the balance would go negative. A SELL credits unconditionally.
func (l *WalletLedger) SettleOrderPayment(ctx context.Context, q repository.DBExecutor, order *domain.Order) (*domain.Wallet, error) {
	wallet, err := l.LockWallet(ctx, q, order.UserID)
	if err != nil {
		return nil, fmt.Errorf("settle order payment: %w", err)
	}

	entry := domain.LedgerEntry{TransferID: strconv.FormatInt(order.ID, 10)}
	coinID := ""
	if order.Item != nil {
		coinID = order.Item.CoinID
	}

	switch order.OrderType {
	case domain.OrderTypeBuy:
		newBalance := wallet.Balance.Sub(order.Price)
		if newBalance.IsNegative() || (l.legacyFundsCheck && newBalance.LessThan(order.Price)) {
			return nil, fmt.Errorf("settle order payment: balance %s, price %s: %w", wallet.Balance, order.Price, util.ErrInsufficientFunds)
		}
		entry.Type = domain.WalletTransactionBuyAsset
		entry.Purpose = "buy " + coinID
		return l.Credit(ctx, q, wallet, order.Price.Neg(), entry)
	case domain.OrderTypeSell:
		entry.Type = domain.WalletTransactionSellAsset
		entry.Purpose = "sell " + coinID
		return l.Credit(ctx, q, wallet, order.Price, entry)
	default:
		return nil, fmt.Errorf("settle order payment: order type %q: %w", order.OrderType, util.ErrInvalidInput)
	}
}

// History returns a page of ledger entries for walletID and the total count.
func (l *WalletLedger) History(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.WalletTransaction, int64, error) {
	return l.entries.GetWalletTransactionsByWalletID(ctx, q, walletID, limit, offset)
}
