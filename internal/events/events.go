// Package events описывает доменные события заказов и способ их публикации.
package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Ключи маршрутизации в topic exchange
const (
	RoutingOrderCreated       = "order.created"
	RoutingOrderStatusChanged = "order.status_changed"
)

// Publisher отправляет событие во внешнюю шину.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

type OrderItem struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// OrderCreated публикуется после коммита транзакции оформления заказа.
type OrderCreated struct {
	OrderID       int64           `json:"order_id"`
	OrderNumber   string          `json:"order_number"`
	UserID        int64           `json:"user_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Items         []OrderItem     `json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderStatusChanged публикуется после изменения статуса администратором.
type OrderStatusChanged struct {
	OrderID       int64     `json:"order_id"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// NopPublisher используется, когда брокер не настроен.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }
