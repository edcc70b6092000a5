package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

const (
	opTimeout = 5 * time.Second
)

const orderColumns = `
	id, customer_id, status, currency,
	request_at, approved_at, paid_at, shipped_at, delivered_at,
	cancelled_at, returned_at, refunded_at,
	subtotal_minor, discount_minor, shipping_fee_minor, total_minor,
	version, created_at, updated_at`

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository создаёт PostgreSQL-реализацию OrderRepository.
func NewOrderRepository(store *Store) domain.OrderRepository {
	return &orderRepository{db: store.DB()}
}

func (r *orderRepository) Create(order domain.Order) error {
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

	if err = insertOrderTx(ctx, tx, order); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}

	return nil
}

func (r *orderRepository) Get(id string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, fmt.Errorf("select order: %w", err)
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, err
	}
	order.Items = items

	return order, nil
}

func (r *orderRepository) GetByItem(itemID string) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	var orderID string
	err := r.db.QueryRowContext(ctx, `
		SELECT order_id FROM order_items WHERE id = $1
	`, itemID).Scan(&orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Order{}, domain.ErrItemNotFound
		}
		return domain.Order{}, fmt.Errorf("select order item: %w", err)
	}

	return r.Get(orderID)
}

func (r *orderRepository) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC
	`
	if limit > 0 {
		return r.queryOrders(query+" LIMIT $2", customerID, limit)
	}
	return r.queryOrders(query, customerID)
}

func (r *orderRepository) List(status domain.OrderStatus, limit int) ([]domain.Order, error) {
	base := `
		SELECT ` + orderColumns + `
		FROM orders
	`
	order := " ORDER BY created_at DESC, id DESC"

	switch {
	case status != "" && limit > 0:
		return r.queryOrders(base+" WHERE status = $1"+order+" LIMIT $2", string(status), limit)
	case status != "":
		return r.queryOrders(base+" WHERE status = $1"+order, string(status))
	case limit > 0:
		return r.queryOrders(base+order+" LIMIT $1", limit)
	default:
		return r.queryOrders(base + order)
	}
}

func (r *orderRepository) Save(order domain.Order) error {
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

	res, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1,
		    request_at = $2,
		    approved_at = $3,
		    paid_at = $4,
		    shipped_at = $5,
		    delivered_at = $6,
		    cancelled_at = $7,
		    returned_at = $8,
		    refunded_at = $9,
		    subtotal_minor = $10,
		    discount_minor = $11,
		    shipping_fee_minor = $12,
		    total_minor = $13,
		    version = version + 1,
		    updated_at = $14
		WHERE id = $15
		  AND version = $16
	`,
		string(order.Status),
		order.RequestAt, order.ApprovedAt, order.PaidAt, order.ShippedAt, order.DeliveredAt,
		order.CancelledAt, order.ReturnedAt, order.RefundedAt,
		order.SubtotalMinor, order.DiscountMinor, order.ShippingFeeMinor, order.TotalMinor,
		order.UpdatedAt,
		order.ID,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		exists, existsErr := r.orderExistsTx(ctx, tx, order.ID)
		if existsErr != nil {
			err = existsErr
			return err
		}
		err = domain.ErrOrderVersionConflict
		if !exists {
			err = domain.ErrOrderNotFound
		}
		return err
	}

	for _, item := range order.Items {
		if _, err = tx.ExecContext(ctx, `
			UPDATE order_items
			SET qty = $1,
			    discount_minor = $2
			WHERE id = $3
			  AND order_id = $4
		`, item.Qty, item.DiscountMinor, item.ID, order.ID); err != nil {
			return fmt.Errorf("update order item: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save order: %w", err)
	}

	return nil
}

func (r *orderRepository) queryOrders(query string, args ...any) ([]domain.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := make([]domain.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	return orders, nil
}

func (r *orderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, product_id, name, price_minor, qty, discount_minor, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.OrderItem, 0)
	for rows.Next() {
		item := domain.OrderItem{OrderID: orderID}
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.PriceMinor, &item.Qty, &item.DiscountMinor, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) orderExistsTx(ctx context.Context, tx *sql.Tx, orderID string) (bool, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM orders WHERE id = $1`, orderID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return false, fmt.Errorf("check order exists: %w", err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (domain.Order, error) {
	var order domain.Order
	var status string

	err := row.Scan(
		&order.ID, &order.CustomerID, &status, &order.Currency,
		&order.RequestAt, &order.ApprovedAt, &order.PaidAt, &order.ShippedAt, &order.DeliveredAt,
		&order.CancelledAt, &order.ReturnedAt, &order.RefundedAt,
		&order.SubtotalMinor, &order.DiscountMinor, &order.ShippingFeeMinor, &order.TotalMinor,
		&order.Version, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return domain.Order{}, err
	}
	order.Status = domain.OrderStatus(status)
	return order, nil
}

// insertOrderTx вставляет заказ с позициями в рамках внешней транзакции.
func insertOrderTx(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO orders (
			id, customer_id, status, currency,
			request_at, approved_at, paid_at, shipped_at, delivered_at,
			cancelled_at, returned_at, refunded_at,
			subtotal_minor, discount_minor, shipping_fee_minor, total_minor,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		order.ID, order.CustomerID, string(order.Status), order.Currency,
		order.RequestAt, order.ApprovedAt, order.PaidAt, order.ShippedAt, order.DeliveredAt,
		order.CancelledAt, order.ReturnedAt, order.RefundedAt,
		order.SubtotalMinor, order.DiscountMinor, order.ShippingFeeMinor, order.TotalMinor,
		order.Version, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrOrderVersionConflict
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (
				id, order_id, product_id, name, price_minor, qty, discount_minor, created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		`,
			item.ID, order.ID, item.ProductID, item.Name, item.PriceMinor, item.Qty, item.DiscountMinor, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

var _ domain.OrderRepository = (*orderRepository)(nil)
