package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/maizy-store/internal/domain/models"
	"github.com/linemk/maizy-store/internal/events"
	"github.com/linemk/maizy-store/internal/storage"
	"github.com/shopspring/decimal"
)

// DefaultOrderNumberAttempts — сколько раз генерируется номер заказа при конфликтах.
const DefaultOrderNumberAttempts = 5

// CheckoutRequest — необязательные данные, которые клиент передаёт при оформлении.
type CheckoutRequest struct {
	PaymentMethod string
	Notes         string
}

// CheckoutResult — итог успешного оформления заказа.
type CheckoutResult struct {
	OrderID     int64
	OrderNumber string
	TotalAmount decimal.Decimal
	Items       int
}

// CheckoutService превращает корзину пользователя в заказ.
type CheckoutService interface {
	Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutService struct {
	log         *slog.Logger
	db          *sql.DB
	cartRepo    storage.CartStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	itemRepo    storage.OrderItemStorage
	publisher   events.Publisher

	orderNumberAttempts int
	newOrderNumber      OrderNumberFunc
	now                 func() time.Time
}

type CheckoutOption func(*checkoutService)

// WithOrderNumberFunc подменяет генератор номеров заказа.
func WithOrderNumberFunc(fn OrderNumberFunc) CheckoutOption {
	return func(s *checkoutService) { s.newOrderNumber = fn }
}

// WithOrderNumberAttempts задаёт число попыток генерации номера заказа.
func WithOrderNumberAttempts(n int) CheckoutOption {
	return func(s *checkoutService) {
		if n > 0 {
			s.orderNumberAttempts = n
		}
	}
}

func NewCheckoutService(
	log *slog.Logger,
	db *sql.DB,
	cartRepo storage.CartStorage,
	productRepo storage.ProductStorage,
	orderRepo storage.OrderStorage,
	itemRepo storage.OrderItemStorage,
	publisher events.Publisher,
	opts ...CheckoutOption,
) CheckoutService {
	s := &checkoutService{
		log:                 log,
		db:                  db,
		cartRepo:            cartRepo,
		productRepo:         productRepo,
		orderRepo:           orderRepo,
		itemRepo:            itemRepo,
		publisher:           publisher,
		orderNumberAttempts: DefaultOrderNumberAttempts,
		newOrderNumber:      NewOrderNumber,
		now:                 time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout оформляет заказ из корзины одной транзакцией: либо создаются заказ,
// все позиции, списывается остаток и очищается корзина, либо не меняется ничего.
func (s *checkoutService) Checkout(ctx context.Context, userID int64, req CheckoutRequest) (*CheckoutResult, error) {
	const op = "service.CheckoutService.Checkout"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))
	logger.Info("starting checkout transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
	}

	rollback := func() {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
	}

	lines, err := s.cartRepo.GetCartLinesTx(ctx, tx, userID)
	if err != nil {
		rollback()
		logger.Error("failed to get cart lines", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
	}

	if len(lines) == 0 {
		rollback()
		logger.Warn("cart is empty")
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCart)
	}

	// Проверяем остатки до любой записи
	total := decimal.Zero
	for _, line := range lines {
		if line.Stock < line.Quantity {
			rollback()
			logger.Warn("insufficient stock",
				slog.Int64("productID", line.ProductID),
				slog.Int("stock", line.Stock),
				slog.Int("quantity", line.Quantity),
			)
			return nil, fmt.Errorf("%s: %w", op, &InsufficientStockError{ProductName: line.ProductName})
		}
		total = total.Add(line.LineTotal())
	}

	order := &models.Order{
		UserID:        userID,
		TotalAmount:   total,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
	}
	if order.PaymentMethod == "" {
		order.PaymentMethod = models.DefaultPaymentMethod
	}
	if req.Notes != "" {
		notes := req.Notes
		order.Notes = &notes
	}

	for attempt := 1; ; attempt++ {
		order.OrderNumber = s.newOrderNumber(s.now())
		order.ID, err = s.orderRepo.CreateOrderTx(ctx, tx, order)
		if err == nil {
			break
		}
		if errors.Is(err, storage.ErrOrderNumberTaken) && attempt < s.orderNumberAttempts {
			logger.Warn("order number collision, regenerating",
				slog.String("orderNumber", order.OrderNumber),
				slog.Int("attempt", attempt),
			)
			continue
		}
		rollback()
		logger.Error("failed to create order", slog.Any("error", err), slog.Int("attempt", attempt))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
	}

	eventItems := make([]events.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID := line.ProductID
		item := &models.OrderItem{
			OrderID:     order.ID,
			ProductID:   &productID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		}
		if err := s.itemRepo.CreateOrderItemTx(ctx, tx, item); err != nil {
			rollback()
			logger.Error("failed to create order item", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
		}

		// Остаток мог измениться параллельным заказом после чтения корзины
		ok, err := s.productRepo.DecrementStockTx(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			rollback()
			logger.Error("failed to decrement stock", slog.Any("error", err))
			return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
		}
		if !ok {
			rollback()
			logger.Warn("stock changed concurrently", slog.Int64("productID", line.ProductID))
			return nil, fmt.Errorf("%s: %w", op, &InsufficientStockError{ProductName: line.ProductName})
		}

		eventItems = append(eventItems, events.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
		})
	}

	cleared, err := s.cartRepo.ClearCartTx(ctx, tx, userID)
	if err != nil {
		rollback()
		logger.Error("failed to clear cart", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
	}
	// Корзину уже оформил другой запрос того же пользователя
	if cleared != int64(len(lines)) {
		rollback()
		logger.Error("cart changed during checkout",
			slog.Int64("deleted", cleared),
			slog.Int("expected", len(lines)),
		)
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, ErrCartChanged)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrOrderCreationFailed, err)
	}

	logger.Info("order created",
		slog.Int64("orderID", order.ID),
		slog.String("orderNumber", order.OrderNumber),
		slog.String("total", total.StringFixed(2)),
	)

	// Заказ уже зафиксирован: отключение клиента не отменяет публикацию,
	// а её ошибка только логируется
	event := events.OrderCreated{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        userID,
		TotalAmount:   total,
		PaymentMethod: order.PaymentMethod,
		Items:         eventItems,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.RoutingOrderCreated, event); err != nil {
		logger.Error("failed to publish order created event", slog.Any("error", err))
	}

	return &CheckoutResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		TotalAmount: total,
		Items:       len(lines),
	}, nil
}
