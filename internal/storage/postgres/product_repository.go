package postgres

import (
	"context"
	"fmt"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = `id, title, description, code, price, status, stock, category, thumbnail, owner`

func (r *ProductRepository) CreateProduct(ctx context.Context, product domain.Product) error {
	const stmt = `
INSERT INTO products (id, title, description, code, price, status, stock, category, thumbnail, owner)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.exec(ctx, stmt,
		product.ID,
		product.Title,
		product.Description,
		product.Code,
		product.Price,
		product.Status,
		product.Stock,
		product.Category,
		product.Thumbnail,
		product.Owner,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p domain.Product
	err := r.queryRow(ctx, query, productID).Scan(
		&p.ID, &p.Title, &p.Description, &p.Code, &p.Price,
		&p.Status, &p.Stock, &p.Category, &p.Thumbnail, &p.Owner,
	)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Product{}, domain.ErrProductNotFound
		}
		if err == pgx.ErrNoRows {
			return domain.Product{}, domain.ErrProductNotFound
		}
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const query = `SELECT ` + productColumns + ` FROM products ORDER BY code`

	rows, err := r.query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Code, &p.Price,
			&p.Status, &p.Stock, &p.Category, &p.Thumbnail, &p.Owner,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	const stmt = `
UPDATE products
SET title = $2, description = $3, code = $4, price = $5, status = $6,
    stock = $7, category = $8, thumbnail = $9
WHERE id = $1`

	tag, err := r.exec(ctx, stmt,
		product.ID,
		product.Title,
		product.Description,
		product.Code,
		product.Price,
		product.Status,
		product.Stock,
		product.Category,
		product.Thumbnail,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrCodeAlreadyExists
		}
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, productID string) error {
	tag, err := r.exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// DecrementStock is a single conditional update, atomic per row: two
// concurrent decrements on one product can never jointly exceed its stock.
// Zero affected rows means either a missing product or a short row; a
// follow-up existence probe disambiguates.
func (r *ProductRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return domain.ErrInvalidQuantity
	}

	const stmt = `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`

	tag, err := r.exec(ctx, stmt, productID, quantity)
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.queryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
		return fmt.Errorf("decrement stock probe: %w", err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}
	return domain.ErrInsufficientStock
}

func (r *ProductRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *ProductRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *ProductRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
