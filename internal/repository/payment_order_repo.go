// internal/repository/payment_order_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// PaymentOrderRepository defines the interface for deposit tracking.
type PaymentOrderRepository interface {
	CreatePaymentOrder(ctx context.Context, q DBExecutor, p *domain.PaymentOrder) error
	GetPaymentOrderByID(ctx context.Context, q DBExecutor, id int64) (*domain.PaymentOrder, error)
	GetPaymentOrderByIDForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.PaymentOrder, error)
	// UpdatePaymentOrder stores status and external reference.
	UpdatePaymentOrder(ctx context.Context, q DBExecutor, p *domain.PaymentOrder) error
}
