package service_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/linemk/maizy-store/internal/domain/models"
	"github.com/linemk/maizy-store/internal/events"
	"github.com/linemk/maizy-store/internal/storage"
)

type fakeProductRepo struct {
	stock map[int64]int // ключ — productID
	// failDecrement эмулирует параллельный заказ, успевший забрать остаток
	failDecrement map[int64]bool
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{stock: make(map[int64]int), failDecrement: make(map[int64]bool)}
}

func (f *fakeProductRepo) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (bool, error) {
	if f.failDecrement[productID] || f.stock[productID] < quantity {
		return false, nil
	}
	f.stock[productID] -= quantity
	return true, nil
}

type fakeCartRepo struct {
	lines    map[int64][]*models.CartLine // ключ — userID
	products *fakeProductRepo
	err      error

	// takenByOther эмулирует повторный запрос, который уже удалил строки корзины
	takenByOther bool
}

var _ storage.CartStorage = (*fakeCartRepo)(nil)

func newFakeCartRepo(products *fakeProductRepo) *fakeCartRepo {
	return &fakeCartRepo{lines: make(map[int64][]*models.CartLine), products: products}
}

func (f *fakeCartRepo) GetCartLinesTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartLine, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.CartLine
	for _, l := range f.lines[userID] {
		line := *l
		line.Stock = f.products.stock[l.ProductID]
		out = append(out, &line)
	}
	return out, nil
}

func (f *fakeCartRepo) ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	if f.takenByOther {
		return 0, nil
	}
	n := len(f.lines[userID])
	delete(f.lines, userID)
	return int64(n), nil
}

type fakeOrderRepo struct {
	orders   []*models.Order
	taken    map[string]bool
	updateFn func(orderID int64, status models.OrderStatus, paymentStatus *models.PaymentStatus) error
	listErr  error
	lastList models.OrderFilter
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{taken: make(map[string]bool)}
}

func (f *fakeOrderRepo) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	if f.taken[order.OrderNumber] {
		return 0, storage.ErrOrderNumberTaken
	}
	f.taken[order.OrderNumber] = true
	stored := *order
	stored.ID = int64(len(f.orders) + 1)
	f.orders = append(f.orders, &stored)
	return stored.ID, nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) GetOrderByNumber(ctx context.Context, userID int64, orderNumber string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.UserID == userID && o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, storage.ErrOrderNotFound
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	f.lastList = filter
	if f.listErr != nil {
		return nil, f.listErr
	}
	return nil, nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus, paymentStatus *models.PaymentStatus) error {
	if f.updateFn != nil {
		return f.updateFn(orderID, status, paymentStatus)
	}
	return nil
}

type fakeOrderItemRepo struct {
	items []*models.OrderItem
}

var _ storage.OrderItemStorage = (*fakeOrderItemRepo)(nil)

func (f *fakeOrderItemRepo) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	stored := *item
	stored.ID = int64(len(f.items) + 1)
	f.items = append(f.items, &stored)
	return nil
}

func (f *fakeOrderItemRepo) GetItemsByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	var out []*models.OrderItem
	for _, it := range f.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

type publishedEvent struct {
	ctx        context.Context
	routingKey string
	payload    any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

var _ events.Publisher = (*fakePublisher)(nil)

func (f *fakePublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, publishedEvent{ctx: ctx, routingKey: routingKey, payload: payload})
	return nil
}

func (f *fakePublisher) Close() error { return nil }
