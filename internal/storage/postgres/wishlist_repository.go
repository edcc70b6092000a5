package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository создаёт PostgreSQL-реализацию WishlistRepository.
func NewWishlistRepository(store *Store) domain.WishlistRepository {
	return &wishlistRepository{db: store.DB()}
}

func (r *wishlistRepository) Add(item domain.WishlistItem) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (customer_id, product_id, added_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (customer_id, product_id) DO NOTHING
	`, item.CustomerID, item.ProductID, item.AddedAt); err != nil {
		return fmt.Errorf("insert wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) Remove(customerID, productID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist_items
		WHERE customer_id = $1 AND product_id = $2
	`, customerID, productID); err != nil {
		return fmt.Errorf("delete wishlist item: %w", err)
	}
	return nil
}

func (r *wishlistRepository) List(customerID string) ([]domain.WishlistItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT customer_id, product_id, added_at
		FROM wishlist_items
		WHERE customer_id = $1
		ORDER BY added_at DESC, product_id ASC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.WishlistItem, 0)
	for rows.Next() {
		var item domain.WishlistItem
		if err := rows.Scan(&item.CustomerID, &item.ProductID, &item.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate wishlist items: %w", err)
	}

	return items, nil
}

var _ domain.WishlistRepository = (*wishlistRepository)(nil)
