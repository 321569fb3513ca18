package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/linemk/maizy-store/internal/domain/models"
)

var validate = validator.New()

// ErrorResponse — тело ответа при любой ошибке
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OrderView — заказ в том виде, в каком его видит клиент. Суммы отдаются числом с двумя знаками.
type OrderView struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	OrderNumber   string      `json:"order_number"`
	TotalAmount   json.Number `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	Notes         *string     `json:"notes"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	ItemCount     int         `json:"item_count"`
	Username      string      `json:"username,omitempty"`
	Email         string      `json:"email,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItemView struct {
	ID          int64       `json:"id"`
	ProductID   *int64      `json:"product_id"`
	ProductName string      `json:"product_name"`
	Price       json.Number `json:"price"`
	Quantity    int         `json:"quantity"`
}

func toOrderView(o *models.Order) OrderView {
	return OrderView{
		ID:            o.ID,
		UserID:        o.UserID,
		OrderNumber:   o.OrderNumber,
		TotalAmount:   json.Number(o.TotalAmount.StringFixed(2)),
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ItemCount:     o.ItemCount,
		Username:      o.Username,
		Email:         o.Email,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func toOrderViews(orders []*models.Order) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	return views
}

func toOrderItemViews(items []*models.OrderItem) []OrderItemView {
	views := make([]OrderItemView, 0, len(items))
	for _, it := range items {
		views = append(views, OrderItemView{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       json.Number(it.Price.StringFixed(2)),
			Quantity:    it.Quantity,
		})
	}
	return views
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, ErrorResponse{Success: false, Message: message})
}
