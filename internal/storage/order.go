package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/linemk/maizy-store/internal/domain/models"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderNumberTaken возвращается, если сгенерированный номер заказа уже занят.
	ErrOrderNumberTaken = errors.New("order number already taken")
)

// OrderStorage описывает методы для работы с заказами.
type OrderStorage interface {
	// CreateOrderTx вставляет заказ в рамках транзакции и возвращает его id.
	CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error)
	// GetOrdersByUserID возвращает заказы пользователя, новые первыми.
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// GetOrderByNumber ищет заказ пользователя по его номеру.
	GetOrderByNumber(ctx context.Context, userID int64, orderNumber string) (*models.Order, error)
	// ListOrders возвращает все заказы для администратора.
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	// UpdateOrderStatus меняет статус заказа и, если передан, статус оплаты.
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus, paymentStatus *models.PaymentStatus) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт новый репозиторий заказов.
func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

// CreateOrderTx вставляет новый заказ. Конфликт по order_number не прерывает
// транзакцию (ON CONFLICT DO NOTHING), а возвращается как ErrOrderNumberTaken.
func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	query := `
		INSERT INTO orders (user_id, order_number, total_amount, payment_method, notes, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_number) DO NOTHING
		RETURNING id`
	var id int64
	err := tx.QueryRowContext(ctx, query,
		order.UserID, order.OrderNumber, order.TotalAmount, order.PaymentMethod, order.Notes, order.Status, order.PaymentStatus,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrOrderNumberTaken
		}
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

const orderColumns = `o.id, o.user_id, o.order_number, o.total_amount, o.payment_method, o.notes,
		       o.status, o.payment_status, o.created_at, o.updated_at`

func scanOrder(scan func(dest ...any) error, order *models.Order, extra ...any) error {
	dest := []any{
		&order.ID, &order.UserID, &order.OrderNumber, &order.TotalAmount, &order.PaymentMethod, &order.Notes,
		&order.Status, &order.PaymentStatus, &order.CreatedAt, &order.UpdatedAt,
	}
	return scan(append(dest, extra...)...)
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := scanOrder(rows.Scan, order, &order.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) GetOrderByNumber(ctx context.Context, userID int64, orderNumber string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.order_number = $1 AND o.user_id = $2`
	order := &models.Order{}
	row := r.db.QueryRowContext(ctx, query, orderNumber, userID)
	if err := scanOrder(row.Scan, order); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`
		SELECT ` + orderColumns + `, u.username, u.email,
		       (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count
		FROM orders o
		JOIN users u ON o.user_id = u.id`)
	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&sb, " WHERE o.status = $%d", len(args))
	}
	args = append(args, filter.Limit, filter.Offset)
	fmt.Fprintf(&sb, " ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order := &models.Order{}
		if err := scanOrder(rows.Scan, order, &order.Username, &order.Email, &order.ItemCount); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus, paymentStatus *models.PaymentStatus) error {
	var (
		res sql.Result
		err error
	)
	if paymentStatus != nil {
		res, err = r.db.ExecContext(ctx,
			"UPDATE orders SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3",
			status, *paymentStatus, orderID,
		)
	} else {
		res, err = r.db.ExecContext(ctx,
			"UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2",
			status, orderID,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
