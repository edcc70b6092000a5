package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

type checkoutRepository struct {
	db *sql.DB
}

// NewCheckoutRepository создаёт PostgreSQL-реализацию CheckoutRepository.
// Списание остатков, вставка заказа и очистка корзины выполняются в одной
// транзакции.
func NewCheckoutRepository(store *Store) domain.CheckoutRepository {
	return &checkoutRepository{db: store.DB()}
}

func (r *checkoutRepository) Checkout(order domain.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, item := range order.Items {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE products
			SET stock = stock - $1,
			    updated_at = NOW()
			WHERE id = $2
			  AND stock >= $1
		`, item.Qty, item.ProductID)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		var affected int64
		affected, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("stock rows affected: %w", err)
		}
		if affected == 0 {
			err = r.stockError(ctx, tx, item.ProductID)
			return err
		}
	}

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE customer_id = $1
	`, order.CustomerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit checkout: %w", err)
	}

	return nil
}

// stockError различает отсутствие товара и нехватку остатка.
func (r *checkoutRepository) stockError(ctx context.Context, tx *sql.Tx, productID string) error {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM products WHERE id = $1`, productID).Scan(&id)
	if err != nil {
		return domain.ErrProductNotFound
	}
	return domain.ErrInsufficientStock
}

var _ domain.CheckoutRepository = (*checkoutRepository)(nil)
