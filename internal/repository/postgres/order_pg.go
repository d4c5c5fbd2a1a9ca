// internal/repository/postgres/order_pg.go
package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"

	"github.com/shopspring/decimal"
)

// orderRow is one orders row joined with its single order_items row.
type orderRow struct {
	ID             int64              `db:"id"`
	UserID         int64              `db:"user_id"`
	OrderType      domain.OrderType   `db:"order_type"`
	Status         domain.OrderStatus `db:"status"`
	Price          decimal.Decimal    `db:"price"`
	IdempotencyKey *string            `db:"idempotency_key"`
	Timestamp      time.Time          `db:"timestamp"`
	ItemID         int64              `db:"item_id"`
	CoinID         string             `db:"coin_id"`
	Quantity       decimal.Decimal    `db:"quantity"`
	BuyPrice       decimal.Decimal    `db:"buy_price"`
	SellPrice      decimal.Decimal    `db:"sell_price"`
}

func (r orderRow) toDomain() domain.Order {
	return domain.Order{
		ID:             r.ID,
		UserID:         r.UserID,
		OrderType:      r.OrderType,
		Status:         r.Status,
		Price:          r.Price,
		IdempotencyKey: r.IdempotencyKey,
		Timestamp:      r.Timestamp,
		Item: &domain.OrderItem{
			ID:        r.ItemID,
			OrderID:   r.ID,
			CoinID:    r.CoinID,
			Quantity:  r.Quantity,
			BuyPrice:  r.BuyPrice,
			SellPrice: r.SellPrice,
		},
	}
}

const orderSelect = `
	SELECT o.id, o.user_id, o.order_type, o.status, o.price, o.idempotency_key, o.timestamp,
	       i.id AS item_id, i.coin_id, i.quantity, i.buy_price, i.sell_price
	FROM orders o
	JOIN order_items i ON i.order_id = o.id`

// OrderRepository implements repository.OrderRepository for PostgreSQL.
type OrderRepository struct{}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository() repository.OrderRepository {
	return &OrderRepository{}
}

// CreateOrder inserts the order and then its item. Both must run on the same transaction.
func (r *OrderRepository) CreateOrder(ctx context.Context, q repository.DBExecutor, order *domain.Order) error {
	if order.Item == nil {
		return fmt.Errorf("order has no item: %w", util.ErrInvalidInput)
	}

	query := `INSERT INTO orders (user_id, order_type, status, price, idempotency_key, timestamp)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		order.UserID, order.OrderType, order.Status, order.Price, order.IdempotencyKey, order.Timestamp,
	).Scan(&order.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("order idempotency key for user %d: %w", order.UserID, util.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create order: %w", err)
	}

	item := order.Item
	item.OrderID = order.ID
	itemQuery := `INSERT INTO order_items (order_id, coin_id, quantity, buy_price, sell_price)
                  VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err = q.QueryRowContext(ctx, itemQuery,
		item.OrderID, item.CoinID, item.Quantity, item.BuyPrice, item.SellPrice,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("failed to create order item for order %d: %w", order.ID, err)
	}
	return nil
}

// GetOrderByID retrieves an order and its item.
func (r *OrderRepository) GetOrderByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Order, error) {
	var row orderRow
	if err := q.GetContext(ctx, &row, orderSelect+` WHERE o.id = $1`, id); err != nil {
		if isNoRows(err) {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID %d: %w", id, err)
	}
	order := row.toDomain()
	return &order, nil
}

// GetOrderByIdempotencyKey finds the order a user previously submitted with key.
func (r *OrderRepository) GetOrderByIdempotencyKey(ctx context.Context, q repository.DBExecutor, userID int64, key string) (*domain.Order, error) {
	var row orderRow
	err := q.GetContext(ctx, &row, orderSelect+` WHERE o.user_id = $1 AND o.idempotency_key = $2`, userID, key)
	if err != nil {
		if isNoRows(err) {
			return nil, util.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by idempotency key for user %d: %w", userID, err)
	}
	order := row.toDomain()
	return &order, nil
}

// ListOrdersByUserID returns a user's orders, newest first, narrowed by filter.
func (r *OrderRepository) ListOrdersByUserID(ctx context.Context, q repository.DBExecutor, userID int64, filter domain.OrderFilter) ([]domain.Order, error) {
	conds := []string{`o.user_id = $1`}
	args := []interface{}{userID}
	if filter.OrderType != "" {
		args = append(args, filter.OrderType)
		conds = append(conds, fmt.Sprintf(`o.order_type = $%d`, len(args)))
	}
	if filter.CoinID != "" {
		args = append(args, filter.CoinID)
		conds = append(conds, fmt.Sprintf(`i.coin_id = $%d`, len(args)))
	}
	query := orderSelect + ` WHERE ` + strings.Join(conds, ` AND `) + ` ORDER BY o.timestamp DESC, o.id DESC`

	rows := []orderRow{}
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list orders for user %d: %w", userID, err)
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, row.toDomain())
	}
	return orders, nil
}

// UpdateOrderStatus changes an order's status.
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, q repository.DBExecutor, id int64, status domain.OrderStatus) error {
	result, err := q.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("failed to get rows affected after updating order %d: %w", id, err)
	} else if n == 0 {
		return util.ErrOrderNotFound
	}
	return nil
}
