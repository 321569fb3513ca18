package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrOrderCreationFailed  = errors.New("server error creating order")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	ErrOrderNotFound        = errors.New("order not found")
	// ErrCartChanged — корзина изменилась между чтением и удалением внутри транзакции.
	ErrCartChanged          = errors.New("cart changed during checkout")
)

// InsufficientStockError сообщает, какого товара не хватило.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s", e.ProductName)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
