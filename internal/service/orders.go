package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/linemk/maizy-store/internal/domain/models"
	"github.com/linemk/maizy-store/internal/events"
	"github.com/linemk/maizy-store/internal/storage"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// OrderDetails — заказ вместе с позициями.
type OrderDetails struct {
	Order *models.Order       `json:"order"`
	Items []*models.OrderItem `json:"items"`
}

// ListOrdersParams — параметры административной выборки. Пустой Status означает все заказы.
type ListOrdersParams struct {
	Status string
	Limit  int
	Offset int
}

// OrderService отвечает за чтение заказов и смену их статуса.
type OrderService interface {
	ListMyOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	GetMyOrder(ctx context.Context, userID int64, orderNumber string) (*OrderDetails, error)
	ListAllOrders(ctx context.Context, params ListOrdersParams) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status string, paymentStatus *string) error
}

type orderService struct {
	log       *slog.Logger
	orderRepo storage.OrderStorage
	itemRepo  storage.OrderItemStorage
	publisher events.Publisher
}

func NewOrderService(log *slog.Logger, orderRepo storage.OrderStorage, itemRepo storage.OrderItemStorage, publisher events.Publisher) OrderService {
	return &orderService{
		log:       log,
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		publisher: publisher,
	}
}

func (s *orderService) ListMyOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.ListMyOrders"
	s.log.Info("listing orders", slog.String("op", op), slog.Int64("userID", userID))

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

func (s *orderService) GetMyOrder(ctx context.Context, userID int64, orderNumber string) (*OrderDetails, error) {
	const op = "service.OrderService.GetMyOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.String("orderNumber", orderNumber))

	order, err := s.orderRepo.GetOrderByNumber(ctx, userID, orderNumber)
	if err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return nil, fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		logger.Error("failed to get order", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items, err := s.itemRepo.GetItemsByOrderID(ctx, order.ID)
	if err != nil {
		logger.Error("failed to get order items", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if items == nil {
		items = []*models.OrderItem{}
	}
	return &OrderDetails{Order: order, Items: items}, nil
}

func (s *orderService) ListAllOrders(ctx context.Context, params ListOrdersParams) ([]*models.Order, error) {
	const op = "service.OrderService.ListAllOrders"

	filter := models.OrderFilter{Limit: params.Limit, Offset: params.Offset}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	if params.Status != "" {
		status := models.OrderStatus(params.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidStatus)
		}
		filter.Status = &status
	}

	orders, err := s.orderRepo.ListOrders(ctx, filter)
	if err != nil {
		s.log.Error("failed to list orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// UpdateStatus меняет статус заказа. Остатки и корзина не затрагиваются.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int64, status string, paymentStatus *string) error {
	const op = "service.OrderService.UpdateStatus"
	logger := s.log.With(slog.String("op", op), slog.Int64("orderID", orderID), slog.String("status", status))

	orderStatus := models.OrderStatus(status)
	if !orderStatus.Valid() {
		logger.Warn("invalid status")
		return fmt.Errorf("%s: %w", op, ErrInvalidStatus)
	}

	var payStatus *models.PaymentStatus
	if paymentStatus != nil && *paymentStatus != "" {
		ps := models.PaymentStatus(*paymentStatus)
		if !ps.Valid() {
			logger.Warn("invalid payment status", slog.String("paymentStatus", *paymentStatus))
			return fmt.Errorf("%s: %w", op, ErrInvalidPaymentStatus)
		}
		payStatus = &ps
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, orderStatus, payStatus); err != nil {
		if errors.Is(err, storage.ErrOrderNotFound) {
			logger.Warn("order not found")
			return fmt.Errorf("%s: %w", op, ErrOrderNotFound)
		}
		logger.Error("failed to update order status", slog.Any("error", err))
		return fmt.Errorf("%s: %w", op, err)
	}

	event := events.OrderStatusChanged{
		OrderID:   orderID,
		Status:    status,
		ChangedAt: time.Now().UTC(),
	}
	if payStatus != nil {
		event.PaymentStatus = string(*payStatus)
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), events.RoutingOrderStatusChanged, event); err != nil {
		logger.Error("failed to publish status changed event", slog.Any("error", err))
	}

	logger.Info("order status updated")
	return nil
}
