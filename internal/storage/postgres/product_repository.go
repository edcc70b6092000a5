package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/pottery/internal/domain"
)

const productColumns = `
	id, category_id, name, slug, description,
	price_minor, currency, stock, image_urls, active,
	created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository создаёт PostgreSQL-реализацию ProductRepository.
func NewProductRepository(store *Store) domain.ProductRepository {
	return &productRepository{db: store.DB()}
}

func (r *productRepository) Create(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	images, err := json.Marshal(product.ImageURLs)
	if err != nil {
		return fmt.Errorf("marshal image urls: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO products (
			id, category_id, name, slug, description,
			price_minor, currency, stock, image_urls, active,
			created_at, updated_at
		) VALUES ($1,NULLIF($2,''),$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		product.ID, product.CategoryID, product.Name, product.Slug, product.Description,
		product.PriceMinor, product.Currency, product.Stock, images, product.Active,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

func (r *productRepository) Get(id string) (domain.Product, error) {
	return r.getBy("id", id)
}

func (r *productRepository) GetBySlug(slug string) (domain.Product, error) {
	return r.getBy("slug", slug)
}

func (r *productRepository) getBy(column, value string) (domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE `+column+` = $1
	`, value)

	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("select product: %w", err)
	}
	return product, nil
}

func (r *productRepository) List(filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE ($1 = '' OR category_id = $1)
		  AND (NOT $2 OR active)
		ORDER BY created_at DESC, id DESC
	`

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $3", filter.CategoryID, filter.ActiveOnly, filter.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, filter.CategoryID, filter.ActiveOnly)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

func (r *productRepository) Save(product domain.Product) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	images, err := json.Marshal(product.ImageURLs)
	if err != nil {
		return fmt.Errorf("marshal image urls: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET category_id = NULLIF($1,''),
		    name = $2,
		    slug = $3,
		    description = $4,
		    price_minor = $5,
		    currency = $6,
		    stock = $7,
		    image_urls = $8,
		    active = $9,
		    updated_at = $10
		WHERE id = $11
	`,
		product.CategoryID, product.Name, product.Slug, product.Description,
		product.PriceMinor, product.Currency, product.Stock, images, product.Active,
		product.UpdatedAt, product.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugTaken
		}
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

func (r *productRepository) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		product    domain.Product
		categoryID sql.NullString
		images     []byte
	)

	err := row.Scan(
		&product.ID, &categoryID, &product.Name, &product.Slug, &product.Description,
		&product.PriceMinor, &product.Currency, &product.Stock, &images, &product.Active,
		&product.CreatedAt, &product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}
	product.CategoryID = categoryID.String

	if len(images) > 0 {
		if err := json.Unmarshal(images, &product.ImageURLs); err != nil {
			return domain.Product{}, fmt.Errorf("unmarshal image urls: %w", err)
		}
	}

	return product, nil
}

var _ domain.ProductRepository = (*productRepository)(nil)
