// internal/payment/midtrans.go
package payment

import (
	"context"
	"fmt"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/util"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"github.com/shopspring/decimal"
)

// MidtransGateway creates Snap payment links and checks settlement through the Core API.
type MidtransGateway struct {
	snap snap.Client
	core coreapi.Client
}

// NewMidtransGateway creates a gateway for serverKey. production selects the live environment.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

// run executes a blocking SDK call, giving up when ctx ends first.
func run[T any](ctx context.Context, call func() (T, *midtrans.Error)) (T, error) {
	type result struct {
		val T
		err *midtrans.Error
	}
	done := make(chan result, 1)
	go func() {
		v, err := call()
		done <- result{v, err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("midtrans: %w: %v", util.ErrUpstreamUnavailable, ctx.Err())
	case r := <-done:
		if r.err != nil {
			return r.val, fmt.Errorf("midtrans: %w: %s", util.ErrUpstreamUnavailable, r.err.GetMessage())
		}
		return r.val, nil
	}
}

// ValidateAmount implements AmountValidator. Midtrans only charges whole currency units.
func (g *MidtransGateway) ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.IsInteger() {
		return fmt.Errorf("midtrans: amount %s must be a positive whole number: %w", amount, util.ErrInvalidInput)
	}
	return nil
}

// CreatePaymentLink implements Gateway.
func (g *MidtransGateway) CreatePaymentLink(ctx context.Context, order *domain.PaymentOrder, user *domain.User) (*PaymentLink, error) {
	if err := g.ValidateAmount(order.Amount); err != nil {
		return nil, err
	}
	ref := ExternalOrderID(order)
	gross := order.Amount.IntPart()

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  ref,
			GrossAmt: gross,
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    "WALLET-TOPUP",
				Name:  "Wallet top-up",
				Price: gross,
				Qty:   1,
			},
		},
	}

	resp, err := run(ctx, func() (*snap.Response, *midtrans.Error) {
		return g.snap.CreateTransaction(req)
	})
	if err != nil {
		return nil, err
	}
	return &PaymentLink{URL: resp.RedirectURL, Token: resp.Token, ExternalRef: ref}, nil
}

// Confirm implements Gateway. The transaction is looked up by externalPaymentID, falling back to the
// order's own reference, and must match the order's gross amount.
func (g *MidtransGateway) Confirm(ctx context.Context, order *domain.PaymentOrder, externalPaymentID string) (bool, error) {
	id := externalPaymentID
	if id == "" {
		id = order.ExternalRef
	}
	if id == "" {
		id = ExternalOrderID(order)
	}

	status, err := run(ctx, func() (*coreapi.TransactionStatusResponse, *midtrans.Error) {
		return g.core.CheckTransaction(id)
	})
	if err != nil {
		return false, err
	}
	if status.OrderID != "" && status.OrderID != ExternalOrderID(order) {
		return false, nil
	}

	paid, err := mapTransactionStatus(status.TransactionStatus, status.FraudStatus)
	if err != nil || !paid {
		return paid, err
	}

	gross, perr := decimal.NewFromString(status.GrossAmount)
	if perr != nil || !gross.Equal(order.Amount) {
		util.GetLogger().Warn("Midtrans gross amount mismatch",
			"payment_order_id", order.ID, "gross_amount", status.GrossAmount, "expected", order.Amount.String())
		return false, nil
	}
	return true, nil
}

// mapTransactionStatus follows Midtrans notification semantics.
func mapTransactionStatus(transactionStatus, fraudStatus string) (bool, error) {
	switch transactionStatus {
	case "capture":
		switch fraudStatus {
		case "accept":
			return true, nil
		case "challenge":
			return false, util.ErrPaymentPending
		}
		return false, nil
	case "settlement":
		return true, nil
	case "pending":
		return false, util.ErrPaymentPending
	default: // deny, cancel, expire, failure, refund
		return false, nil
	}
}
