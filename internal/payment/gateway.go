// internal/payment/gateway.go
package payment

import (
	"context"

	"tradein-settlement/internal/domain"

	"github.com/shopspring/decimal"
)

// PaymentLink is what the customer follows to pay a deposit.
type PaymentLink struct {
	URL         string `json:"payment_url"`
	Token       string `json:"token,omitempty"`
	ExternalRef string `json:"external_ref"`
}

// Gateway is the payment-provider collaborator used by the deposit flow.
type Gateway interface {
	// CreatePaymentLink registers the order with the provider.
	CreatePaymentLink(ctx context.Context, order *domain.PaymentOrder, user *domain.User) (*PaymentLink, error)
	// Confirm reports whether the provider settled the payment. A payment still in flight
	// returns util.ErrPaymentPending.
	Confirm(ctx context.Context, order *domain.PaymentOrder, externalPaymentID string) (bool, error)
}

// AmountValidator is implemented by gateways that can only charge some amounts. Deposits are
// checked before a payment order is stored, so the credited amount is always the charged amount.
type AmountValidator interface {
	ValidateAmount(amount decimal.Decimal) error
}

// ExternalOrderID is the id under which an order is known to providers.
func ExternalOrderID(order *domain.PaymentOrder) string {
	return "TRADEIN-" + itoa(order.ID)
}
