package models

import "github.com/shopspring/decimal"

// CartLine — строка корзины пользователя, уже объединённая с товаром.
// ProductName, Price и Stock читаются из products в момент оформления заказа.
type CartLine struct {
	ID          int64
	UserID      int64
	ProductID   int64
	Quantity    int
	ProductName string
	Price       decimal.Decimal
	Stock       int
}

// LineTotal возвращает стоимость строки по текущей цене.
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
