package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/linemk/maizy-store/internal/domain/models"
)

// CartStorage описывает методы для работы с корзиной внутри транзакции оформления заказа.
type CartStorage interface {
	// GetCartLinesTx возвращает строки корзины пользователя вместе с данными активных товаров.
	GetCartLinesTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartLine, error)
	// ClearCartTx удаляет все строки корзины пользователя и возвращает число удалённых строк.
	ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error)
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

// GetCartLinesTx блокирует строки корзины до конца транзакции: повторное оформление
// того же пользователя ждёт коммита и видит уже пустую корзину.
func (r *cartRepository) GetCartLinesTx(ctx context.Context, tx *sql.Tx, userID int64) ([]*models.CartLine, error) {
	query := `
		SELECT c.id, c.user_id, c.product_id, c.quantity, p.name, p.price, p.stock
		FROM cart c
		JOIN products p ON c.product_id = p.id
		WHERE c.user_id = $1 AND p.is_active = TRUE
		ORDER BY c.id
		FOR UPDATE OF c`
	rows, err := tx.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ID, &line.UserID, &line.ProductID, &line.Quantity, &line.ProductName, &line.Price, &line.Stock); err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	res, err := tx.ExecContext(ctx, "DELETE FROM cart WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}
	return res.RowsAffected()
}
