// internal/domain/wallet_transaction.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WalletTransactionType classifies a ledger entry.
type WalletTransactionType string

const (
	WalletTransactionWithdrawal WalletTransactionType = "WITHDRAWAL"
	WalletTransactionTransfer   WalletTransactionType = "WALLET_TRANSFER"
	WalletTransactionAddMoney   WalletTransactionType = "ADD_MONEY"
	WalletTransactionBuyAsset   WalletTransactionType = "BUY_ASSET"
	WalletTransactionSellAsset  WalletTransactionType = "SELL_ASSET"
)

// WalletTransaction is an append-only ledger entry. Amount is signed: debits are negative.
type WalletTransaction struct {
	ID         int64                 `db:"id" json:"id"`
	WalletID   int64                 `db:"wallet_id" json:"wallet_id"`
	Type       WalletTransactionType `db:"type" json:"type"`
	TransferID string                `db:"transfer_id" json:"transfer_id"`
	Purpose    string                `db:"purpose" json:"purpose"`
	Amount     decimal.Decimal       `db:"amount" json:"amount"`
	Date       time.Time             `db:"date" json:"date"`
}

// LedgerEntry describes the reason for a balance mutation before it is bound to a wallet.
type LedgerEntry struct {
	Type       WalletTransactionType
	TransferID string
	Purpose    string
}

// NewWalletTransaction creates a ledger entry for walletID.
func NewWalletTransaction(walletID int64, entry LedgerEntry, amount decimal.Decimal) *WalletTransaction {
	return &WalletTransaction{
		WalletID:   walletID,
		Type:       entry.Type,
		TransferID: entry.TransferID,
		Purpose:    entry.Purpose,
		Amount:     amount,
		Date:       time.Now().UTC(),
	}
}
