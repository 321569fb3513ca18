package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/maizy-store/internal/domain/models"
)

// OrderItemStorage описывает методы для работы с позициями заказа.
type OrderItemStorage interface {
	// CreateOrderItemTx сохраняет снимок позиции (название и цена на момент покупки).
	CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error
	// GetItemsByOrderID возвращает позиции заказа.
	GetItemsByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error)
}

type orderItemRepository struct {
	db *sql.DB
}

func NewOrderItemRepository(db *sql.DB) OrderItemStorage {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, product_id, product_name, price, quantity)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := tx.ExecContext(ctx, query, item.OrderID, item.ProductID, item.ProductName, item.Price, item.Quantity)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderItemRepository) GetItemsByOrderID(ctx context.Context, orderID int64) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, product_name, price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
