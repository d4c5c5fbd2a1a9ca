// internal/service/order_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"tradein-settlement/internal/domain"
	"tradein-settlement/internal/repository"
	"tradein-settlement/internal/util"
	"tradein-settlement/pkg/db"
	"tradein-settlement/pkg/keylock"

	"github.com/shopspring/decimal"
)

// PriceOracle supplies the latest price of a coin.
type PriceOracle interface {
	CurrentPrice(ctx context.Context, coinID string) (decimal.Decimal, error)
}

// OrderRequest is a buy or sell request from an authenticated user.
type OrderRequest struct {
	CoinID         string          `json:"coin_id"`
	Quantity       decimal.Decimal `json:"quantity"`
	Side           string          `json:"order_type"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
}

// OrderService defines the order settlement engine.
type OrderService interface {
	ProcessOrder(ctx context.Context, user *domain.User, req OrderRequest) (*domain.Order, error)
	GetOrder(ctx context.Context, user *domain.User, orderID int64) (*domain.Order, error)
	ListOrders(ctx context.Context, user *domain.User, filter domain.OrderFilter) ([]domain.Order, error)
}

type orderService struct {
	dbExecutor repository.DBExecutor
	uow        unitOfWork
	orderRepo  repository.OrderRepository
	ledger     *WalletLedger
	book       *PositionBook
	oracle     PriceOracle
	locks      *keylock.KeyedMutex
	logger     *slog.Logger
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	tx db.TxFuncs,
	dbExecutor repository.DBExecutor,
	orderRepo repository.OrderRepository,
	ledger *WalletLedger,
	book *PositionBook,
	oracle PriceOracle,
	locks *keylock.KeyedMutex,
) OrderService {
	return &orderService{
		dbExecutor: dbExecutor,
		uow:        newUnitOfWork(tx),
		orderRepo:  orderRepo,
		ledger:     ledger,
		book:       book,
		oracle:     oracle,
		locks:      locks,
		logger:     util.GetLogger(),
	}
}

func userLockKey(userID int64) string {
	return "user:" + strconv.FormatInt(userID, 10)
}

// ProcessOrder prices the request, then settles wallet, order and position in one transaction.
// A request repeating an earlier idempotency key returns the earlier order, or ErrIdempotencyKeyReused
// when the request differs from it.
func (s *orderService) ProcessOrder(ctx context.Context, user *domain.User, req OrderRequest) (*domain.Order, error) {
	if user == nil {
		return nil, util.ErrUnauthorized
	}
	side, ok := domain.ParseOrderType(req.Side)
	if !ok {
		return nil, fmt.Errorf("process order: unknown order type %q: %w", req.Side, util.ErrInvalidInput)
	}
	coinID := strings.TrimSpace(req.CoinID)
	if coinID == "" {
		return nil, fmt.Errorf("process order: coin id is required: %w", util.ErrInvalidInput)
	}
	switch side {
	case domain.OrderTypeBuy:
		if req.Quantity.IsNegative() {
			return nil, fmt.Errorf("process order: quantity cannot be negative: %w", util.ErrInvalidInput)
		}
	case domain.OrderTypeSell:
		if !req.Quantity.IsPositive() {
			return nil, fmt.Errorf("process order: quantity must be positive: %w", util.ErrInvalidInput)
		}
	}

	if req.IdempotencyKey != "" {
		existing, err := s.orderRepo.GetOrderByIdempotencyKey(ctx, s.dbExecutor, user.ID, req.IdempotencyKey)
		if err == nil {
			return replay(existing, side, coinID, req.Quantity)
		}
		if !util.IsError(err, util.ErrNotFound) {
			return nil, fmt.Errorf("process order: %w", err)
		}
	}

	price, err := s.oracle.CurrentPrice(ctx, coinID)
	if err != nil {
		return nil, fmt.Errorf("process order: price for %s: %w", coinID, err)
	}

	unlock := s.locks.Lock(userLockKey(user.ID))
	defer unlock()

	var order *domain.Order
	err = s.uow.Do(ctx, "process order", func(q repository.DBExecutor) error {
		if req.IdempotencyKey != "" {
			existing, err := s.orderRepo.GetOrderByIdempotencyKey(ctx, q, user.ID, req.IdempotencyKey)
			if err == nil {
				order, err = replay(existing, side, coinID, req.Quantity)
				return err
			}
			if !util.IsError(err, util.ErrNotFound) {
				return fmt.Errorf("process order: %w", err)
			}
		}

		var err error
		if side == domain.OrderTypeBuy {
			order, err = s.buy(ctx, q, user, coinID, req, price)
		} else {
			order, err = s.sell(ctx, q, user, coinID, req, price)
		}
		return err
	})
	if err != nil {
		s.logger.Warn("Order rejected",
			"user_id", user.ID, "coin_id", coinID, "order_type", side,
			"quantity", req.Quantity.String(), "price", price.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Order settled",
		"order_id", order.ID, "user_id", user.ID, "coin_id", coinID, "order_type", order.OrderType,
		"quantity", req.Quantity.String(), "order_price", order.Price.String())
	return order, nil
}

// replay returns the order stored under a reused idempotency key, provided it was placed for the
// same side, coin and quantity.
func replay(existing *domain.Order, side domain.OrderType, coinID string, quantity decimal.Decimal) (*domain.Order, error) {
	if existing.OrderType != side || existing.Item == nil ||
		existing.Item.CoinID != coinID || !existing.Item.Quantity.Equal(quantity) {
		return nil, fmt.Errorf("process order: order %d: %w", existing.ID, util.ErrIdempotencyKeyReused)
	}
	return existing, nil
}

func idempotencyKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}

func (s *orderService) buy(ctx context.Context, q repository.DBExecutor, user *domain.User, coinID string, req OrderRequest, price decimal.Decimal) (*domain.Order, error) {
	item := &domain.OrderItem{
		CoinID:    coinID,
		Quantity:  req.Quantity,
		BuyPrice:  price,
		SellPrice: decimal.Zero,
	}
	order := domain.NewOrder(user.ID, domain.OrderTypeBuy, item)
	order.IdempotencyKey = idempotencyKey(req.IdempotencyKey)

	if err := s.orderRepo.CreateOrder(ctx, q, order); err != nil {
		return nil, fmt.Errorf("buy: failed to create order: %w", err)
	}
	if _, err := s.ledger.SettleOrderPayment(ctx, q, order); err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	order.Status = domain.OrderStatusSuccess
	if err := s.orderRepo.UpdateOrderStatus(ctx, q, order.ID, order.Status); err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}

	position, err := s.book.FindPosition(ctx, q, user.ID, coinID)
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	if position == nil {
		// A zero-quantity buy settles the order without opening an empty position.
		if req.Quantity.IsPositive() {
			_, err = s.book.Open(ctx, q, user.ID, coinID, req.Quantity, price)
		}
	} else {
		_, err = s.book.Accumulate(ctx, q, position, req.Quantity, price)
	}
	if err != nil {
		return nil, fmt.Errorf("buy: %w", err)
	}
	return order, nil
}

func (s *orderService) sell(ctx context.Context, q repository.DBExecutor, user *domain.User, coinID string, req OrderRequest, price decimal.Decimal) (*domain.Order, error) {
	position, err := s.book.FindPosition(ctx, q, user.ID, coinID)
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}
	if position == nil {
		return nil, fmt.Errorf("sell: %w", util.ErrAssetNotFound)
	}
	if position.Quantity.LessThan(req.Quantity) {
		return nil, fmt.Errorf("sell: holding %s, requested %s: %w", position.Quantity, req.Quantity, util.ErrInsufficientQuantity)
	}

	item := &domain.OrderItem{
		CoinID:    coinID,
		Quantity:  req.Quantity,
		BuyPrice:  position.BuyPrice,
		SellPrice: price,
	}
	order := domain.NewOrder(user.ID, domain.OrderTypeSell, item)
	order.Status = domain.OrderStatusSuccess
	order.IdempotencyKey = idempotencyKey(req.IdempotencyKey)

	if err := s.orderRepo.CreateOrder(ctx, q, order); err != nil {
		return nil, fmt.Errorf("sell: failed to create order: %w", err)
	}
	if _, err := s.ledger.SettleOrderPayment(ctx, q, order); err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}

	remaining, err := s.book.Adjust(ctx, q, position.ID, req.Quantity.Neg())
	if err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}
	if _, err := s.book.CloseIfDust(ctx, q, remaining, price); err != nil {
		return nil, fmt.Errorf("sell: %w", err)
	}
	return order, nil
}

// GetOrder returns one of the user's orders. Orders of other users are reported as not found.
func (s *orderService) GetOrder(ctx context.Context, user *domain.User, orderID int64) (*domain.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, s.dbExecutor, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != user.ID {
		return nil, fmt.Errorf("get order %d: %w", orderID, util.ErrOrderNotFound)
	}
	return order, nil
}

// ListOrders returns the user's orders, newest first.
func (s *orderService) ListOrders(ctx context.Context, user *domain.User, filter domain.OrderFilter) ([]domain.Order, error) {
	orders, err := s.orderRepo.ListOrdersByUserID(ctx, s.dbExecutor, user.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}
