// internal/domain/order.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderType is the side of an order.
type OrderType string

const (
	OrderTypeBuy  OrderType = "BUY"
	OrderTypeSell OrderType = "SELL"
)

// ParseOrderType accepts BUY or SELL in any case.
func ParseOrderType(s string) (OrderType, bool) {
	switch OrderType(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderTypeBuy:
		return OrderTypeBuy, true
	case OrderTypeSell:
		return OrderTypeSell, true
	}
	return "", false
}

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusSuccess  OrderStatus = "SUCCESS"
	OrderStatusDeclined OrderStatus = "DECLINED"
)

// Order is a priced, timestamped buy or sell. Price is fixed at creation.
type Order struct {
	ID             int64           `db:"id" json:"id"`
	UserID         int64           `db:"user_id" json:"user_id"`
	OrderType      OrderType       `db:"order_type" json:"order_type"`
	Status         OrderStatus     `db:"status" json:"status"`
	Price          decimal.Decimal `db:"price" json:"price"`
	IdempotencyKey *string         `db:"idempotency_key" json:"-"`
	Timestamp      time.Time       `db:"timestamp" json:"timestamp"`
	Item           *OrderItem      `db:"-" json:"order_item"`
}

// OrderItem carries the quantity and prices of an order's single line.
type OrderItem struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	CoinID    string          `db:"coin_id" json:"coin_id"`
	Quantity  decimal.Decimal `db:"quantity" json:"quantity"`
	BuyPrice  decimal.Decimal `db:"buy_price" json:"buy_price"`
	SellPrice decimal.Decimal `db:"sell_price" json:"sell_price"`
}

// NewOrder creates a PENDING order whose price is quantity times the item's unit price for its side.
func NewOrder(userID int64, orderType OrderType, item *OrderItem) *Order {
	unit := item.BuyPrice
	if orderType == OrderTypeSell {
		unit = item.SellPrice
	}
	return &Order{
		UserID:    userID,
		OrderType: orderType,
		Status:    OrderStatusPending,
		Price:     unit.Mul(item.Quantity),
		Timestamp: time.Now().UTC(),
		Item:      item,
	}
}

// OrderFilter narrows order listings. Zero values match everything.
type OrderFilter struct {
	OrderType OrderType
	CoinID    string
}
