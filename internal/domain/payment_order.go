// internal/domain/payment_order.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentOrderStatus is the state of a deposit attempt.
type PaymentOrderStatus string

const (
	PaymentOrderPending PaymentOrderStatus = "PENDING"
	PaymentOrderSuccess PaymentOrderStatus = "SUCCESS"
	PaymentOrderFailure PaymentOrderStatus = "FAILURE"
)

// PaymentMethod names the gateway that handles a deposit.
type PaymentMethod string

const (
	PaymentMethodMidtrans PaymentMethod = "MIDTRANS"
	PaymentMethodSandbox  PaymentMethod = "SANDBOX"
)

// ParsePaymentMethod accepts a method name in any case.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentMethodMidtrans:
		return PaymentMethodMidtrans, true
	case PaymentMethodSandbox:
		return PaymentMethodSandbox, true
	}
	return "", false
}

// PaymentOrder tracks a deposit through the payment gateway.
type PaymentOrder struct {
	ID            int64              `db:"id" json:"id"`
	UserID        int64              `db:"user_id" json:"user_id"`
	Amount        decimal.Decimal    `db:"amount" json:"amount"`
	Status        PaymentOrderStatus `db:"status" json:"status"`
	PaymentMethod PaymentMethod      `db:"payment_method" json:"payment_method"`
	ExternalRef   string             `db:"external_ref" json:"external_ref"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

// NewPaymentOrder creates a PENDING payment order.
func NewPaymentOrder(userID int64, amount decimal.Decimal, method PaymentMethod) *PaymentOrder {
	now := time.Now().UTC()
	return &PaymentOrder{
		UserID:        userID,
		Amount:        amount,
		Status:        PaymentOrderPending,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
