// internal/repository/order_repo.go
package repository

import (
	"context"

	"tradein-settlement/internal/domain"
)

// OrderRepository defines the interface for order data operations. Orders are always stored with their item.
type OrderRepository interface {
	// CreateOrder inserts the order and its item. A reused idempotency key yields util.ErrDuplicateEntry.
	CreateOrder(ctx context.Context, q DBExecutor, order *domain.Order) error
	GetOrderByID(ctx context.Context, q DBExecutor, id int64) (*domain.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, q DBExecutor, userID int64, key string) (*domain.Order, error)
	ListOrdersByUserID(ctx context.Context, q DBExecutor, userID int64, filter domain.OrderFilter) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, q DBExecutor, id int64, status domain.OrderStatus) error
}
