package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ProductStorage описывает методы для работы с остатками товаров.
type ProductStorage interface {
	// DecrementStockTx списывает quantity единиц товара, только если остатка хватает.
	// Возвращает false, если остаток меньше quantity (или товара нет).
	DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (bool, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

// DecrementStockTx выполняет проверку и списание одним UPDATE, поэтому два
// параллельных заказа не могут продать одну и ту же последнюю единицу.
func (r *productRepository) DecrementStockTx(ctx context.Context, tx *sql.Tx, productID int64, quantity int) (bool, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1",
		quantity, productID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}
