// internal/payment/sandbox.go
package payment

import (
	"context"
	"strconv"

	"tradein-settlement/internal/domain"
)

// SandboxGateway settles every payment that carries an external payment id. Local and test use only.
type SandboxGateway struct{}

func (SandboxGateway) CreatePaymentLink(_ context.Context, order *domain.PaymentOrder, _ *domain.User) (*PaymentLink, error) {
	ref := ExternalOrderID(order)
	return &PaymentLink{
		URL:         "sandbox://payments/" + ref,
		ExternalRef: ref,
	}, nil
}

func (SandboxGateway) Confirm(_ context.Context, _ *domain.PaymentOrder, externalPaymentID string) (bool, error) {
	return externalPaymentID != "", nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
