package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/linemk/maizy-store/internal/service"
)

type AdminOrdersResponse struct {
	Success bool        `json:"success"`
	Count   int         `json:"count"`
	Orders  []OrderView `json:"orders"`
}

// UpdateStatusRequest — тело PUT /api/orders/admin/{id}/status
type UpdateStatusRequest struct {
	Status        string  `json:"status"`
	PaymentStatus *string `json:"payment_status"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// AdminListOrdersHandler обрабатывает запрос GET /api/orders/admin/all?status=&limit=&offset=
func AdminListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AdminListOrdersHandler"
		logger := log.With(slog.String("op", op))

		limit, err := queryInt(r, "limit", service.DefaultListLimit)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid limit")
			return
		}
		offset, err := queryInt(r, "offset", 0)
		if err != nil {
			writeError(w, logger, http.StatusBadRequest, "invalid offset")
			return
		}

		orders, err := orderService.ListAllOrders(r.Context(), service.ListOrdersParams{
			Status: r.URL.Query().Get("status"),
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			if errors.Is(err, service.ErrInvalidStatus) {
				writeError(w, logger, http.StatusBadRequest, "Invalid status")
				return
			}
			logger.Error("failed to list orders", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Server error")
			return
		}

		writeJSON(w, logger, http.StatusOK, AdminOrdersResponse{
			Success: true,
			Count:   len(orders),
			Orders:  toOrderViews(orders),
		})
	}
}

// UpdateOrderStatusHandler обрабатывает запрос PUT /api/orders/admin/{id}/status
func UpdateOrderStatusHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateOrderStatusHandler"
		logger := log.With(slog.String("op", op))

		orderID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || orderID <= 0 {
			writeError(w, logger, http.StatusBadRequest, "invalid order id")
			return
		}

		var req UpdateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			writeError(w, logger, http.StatusBadRequest, "invalid request")
			return
		}

		err = orderService.UpdateStatus(r.Context(), orderID, req.Status, req.PaymentStatus)
		switch {
		case err == nil:
			writeJSON(w, logger, http.StatusOK, MessageResponse{Success: true, Message: "Order updated successfully"})
		case errors.Is(err, service.ErrInvalidStatus):
			writeError(w, logger, http.StatusBadRequest, "Invalid status")
		case errors.Is(err, service.ErrInvalidPaymentStatus):
			writeError(w, logger, http.StatusBadRequest, "Invalid payment status")
		case errors.Is(err, service.ErrOrderNotFound):
			writeError(w, logger, http.StatusNotFound, "Order not found")
		default:
			logger.Error("failed to update order", slog.Any("error", err))
			writeError(w, logger, http.StatusInternalServerError, "Server error")
		}
	}
}
