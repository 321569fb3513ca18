package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus — статус выполнения заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus — статус оплаты заказа
type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DefaultPaymentMethod записывается, если клиент не передал способ оплаты.
const DefaultPaymentMethod = "pending"

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Order представляет заказ, созданный из корзины пользователя
type Order struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	OrderNumber   string          `json:"order_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Notes         *string         `json:"notes,omitempty"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	ItemCount     int             `json:"item_count"` // заполняется только при выборке списков
	Username      string          `json:"username,omitempty"`
	Email         string          `json:"email,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrderItem — позиция заказа. Название и цена копируются из товара в момент
// оформления и больше никогда не перечитываются из products.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   *int64          `json:"product_id"` // NULL, если товар удалён из каталога
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// OrderFilter — параметры выборки заказов для администратора
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}
