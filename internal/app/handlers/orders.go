package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/maizy-store/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/maizy-store/internal/service"
)

// CreateOrderRequest — тело POST /api/orders/create. Оба поля необязательны.
type CreateOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=50"`
	Notes         string `json:"notes" validate:"omitempty,max=500"`
}

type CreatedOrder struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"order_number"`
	TotalAmount json.Number `json:"total_amount"`
	Items       int         `json:"items"`
}

// CreateOrderResponse — ответ при успешном оформлении заказа.
type CreateOrderResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Order   CreatedOrder `json:"order"`
}

type MyOrdersResponse struct {
	Success bool        `json:"success"`
	Orders  []OrderView `json:"orders"`
}

type OrderDetailsResponse struct {
	Success bool            `json:"success"`
	Order   OrderView       `json:"order"`
	Items   []OrderItemView `json:"items"`
}

// CreateOrderHandler обрабатывает запрос POST /api/orders/create
func CreateOrderHandler(log *slog.Logger, checkoutService service.CheckoutService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		// Пустое тело допустимо
		var req CreateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "validation error")
			return
		}

		result, err := checkoutService.Checkout(r.Context(), userID, service.CheckoutRequest{
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		})
		if err != nil {
			var stockErr *service.InsufficientStockError
			switch {
			case errors.Is(err, service.ErrEmptyCart):
				writeError(w, logger, http.StatusBadRequest, "Cart is empty")
			case errors.As(err, &stockErr):
				writeError(w, logger, http.StatusBadRequest, "Insufficient stock for "+stockErr.ProductName)
			default:
				// подробности только в логе
				logger.Error("create order error", slog.Any("error", err))
				writeError(w, logger, http.StatusInternalServerError, "Server error creating order")
			}
			return
		}

		writeJSON(w, logger, http.StatusCreated, CreateOrderResponse{
			Success: true,
			Message: "Order created successfully",
			Order: CreatedOrder{
				ID:          result.OrderID,
				OrderNumber: result.OrderNumber,
				TotalAmount: json.Number(result.TotalAmount.StringFixed(2)),
				Items:       result.Items,
			},
		})
	}
}

// MyOrdersHandler обрабатывает запрос GET /api/orders/my-orders
func MyOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.MyOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orders, err := orderService.ListMyOrders(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get orders", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, MyOrdersResponse{Success: true, Orders: toOrderViews(orders)})
	}
}

// OrderDetailsHandler обрабатывает запрос GET /api/orders/{orderNumber}
func OrderDetailsHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.OrderDetailsHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			writeError(w, logger, http.StatusUnauthorized, "unauthorized")
			return
		}

		orderNumber := chi.URLParam(r, "orderNumber")
		if orderNumber == "" {
			writeError(w, logger, http.StatusBadRequest, "order number is required")
			return
		}

		details, err := orderService.GetMyOrder(r.Context(), userID, orderNumber)
		if err != nil {
			if errors.Is(err, service.ErrOrderNotFound) {
				writeError(w, logger, http.StatusNotFound, "Order not found")
				return
			}
			logger.Error("failed to get order details", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, OrderDetailsResponse{
			Success: true,
			Order:   toOrderView(details.Order),
			Items:   toOrderItemViews(details.Items),
		})
	}
}
