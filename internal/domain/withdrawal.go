// internal/domain/withdrawal.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalStatus is the state of a withdrawal request. SUCCESS and DECLINED are terminal.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusSuccess  WithdrawalStatus = "SUCCESS"
	WithdrawalStatusDeclined WithdrawalStatus = "DECLINED"
)

// Withdrawal is a request to move funds out of the wallet.
type Withdrawal struct {
	ID     int64            `db:"id" json:"id"`
	UserID int64            `db:"user_id" json:"user_id"`
	Amount decimal.Decimal  `db:"amount" json:"amount"`
	Status WithdrawalStatus `db:"status" json:"status"`
	Date   time.Time        `db:"date" json:"date"`
}

// NewWithdrawal creates a PENDING withdrawal.
func NewWithdrawal(userID int64, amount decimal.Decimal) *Withdrawal {
	return &Withdrawal{
		UserID: userID,
		Amount: amount,
		Status: WithdrawalStatusPending,
		Date:   time.Now().UTC(),
	}
}
