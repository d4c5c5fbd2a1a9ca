// internal/repository/postgres/payment_order_pg.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
)

const paymentOrderColumns = `id, user_id, amount, status, payment_method, external_ref, created_at, updated_at`

// PaymentOrderRepository implements repository.PaymentOrderRepository for PostgreSQL.
type PaymentOrderRepository struct{}

// NewPaymentOrderRepository creates a new PaymentOrderRepository.
func NewPaymentOrderRepository() repository.PaymentOrderRepository {
	return &PaymentOrderRepository{}
}

// CreatePaymentOrder inserts a deposit attempt.
func (r *PaymentOrderRepository) CreatePaymentOrder(ctx context.Context, q repository.DBExecutor, p *domain.PaymentOrder) error {
	query := `INSERT INTO payment_orders (user_id, amount, status, payment_method, external_ref, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		p.UserID, p.Amount, p.Status, p.PaymentMethod, p.ExternalRef, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment order: %w", err)
	}
	return nil
}

func (r *PaymentOrderRepository) get(ctx context.Context, q repository.DBExecutor, id int64, lock bool) (*domain.PaymentOrder, error) {
	var p domain.PaymentOrder
	query := `SELECT ` + paymentOrderColumns + ` FROM payment_orders WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	if err := q.GetContext(ctx, &p, query, id); err != nil {
		if isNoRows(err) {
			return nil, util.ErrPaymentOrderNotFound
		}
		return nil, fmt.Errorf("failed to get payment order %d: %w", id, err)
	}
	return &p, nil
}

// GetPaymentOrderByID retrieves a payment order.
func (r *PaymentOrderRepository) GetPaymentOrderByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PaymentOrder, error) {
	return r.get(ctx, q, id, false)
}

// GetPaymentOrderByIDForUpdate retrieves and locks a payment order.
func (r *PaymentOrderRepository) GetPaymentOrderByIDForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.PaymentOrder, error) {
	return r.get(ctx, q, id, true)
}

// UpdatePaymentOrder stores the status and external reference of a payment order.
func (r *PaymentOrderRepository) UpdatePaymentOrder(ctx context.Context, q repository.DBExecutor, p *domain.PaymentOrder) error {
	p.UpdatedAt = time.Now().UTC()
	query := `UPDATE payment_orders SET status = $1, external_ref = $2, updated_at = $3 WHERE id = $4`
	result, err := q.ExecContext(ctx, query, p.Status, p.ExternalRef, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update payment order %d: %w", p.ID, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected after updating payment order %d: %w", p.ID, err)
	} else if n == 0 {
		return util.ErrPaymentOrderNotFound
	}
	return nil
}
