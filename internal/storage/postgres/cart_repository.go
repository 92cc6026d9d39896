package postgres

import (
	"context"
	"fmt"

	"github.com/Evva88/FinalBack-Velli/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

func (r *CartRepository) CreateCart(ctx context.Context, cart domain.Cart) error {
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		tx := txFromContext(txCtx)
		if _, err := tx.Exec(txCtx, `INSERT INTO carts (id) VALUES ($1)`, cart.ID); err != nil {
			return err
		}
		return insertItems(txCtx, tx, cart.ID, cart.Items)
	})
	if err != nil {
		if isInvalidUUID(err) {
			return domain.ErrInvalidID
		}
		return fmt.Errorf("create cart: %w", err)
	}
	return nil
}

func (r *CartRepository) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	const cartQuery = `SELECT id FROM carts WHERE id = $1`
	const itemsQuery = `
SELECT product_id, quantity
FROM cart_items
WHERE cart_id = $1
ORDER BY position`

	var cart domain.Cart
	if err := r.queryRow(ctx, cartQuery, cartID).Scan(&cart.ID); err != nil {
		if isInvalidUUID(err) || err == pgx.ErrNoRows {
			return domain.Cart{}, domain.ErrCartNotFound
		}
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	rows, err := r.query(ctx, itemsQuery, cartID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return domain.Cart{}, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return domain.Cart{}, fmt.Errorf("get cart items: %w", err)
	}
	return cart, nil
}

// ReplaceLineItems overwrites the cart's items in one transaction, keeping
// the stored order.
func (r *CartRepository) ReplaceLineItems(ctx context.Context, cartID string, items []domain.LineItem) error {
	err := withTx(ctx, r.pool, func(txCtx context.Context) error {
		tx := txFromContext(txCtx)

		var exists bool
		if err := tx.QueryRow(txCtx, `SELECT EXISTS (SELECT 1 FROM carts WHERE id = $1)`, cartID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrCartNotFound
		}

		if _, err := tx.Exec(txCtx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return err
		}
		return insertItems(txCtx, tx, cartID, items)
	})
	if err != nil {
		if err == domain.ErrCartNotFound {
			return err
		}
		if isInvalidUUID(err) {
			return domain.ErrCartNotFound
		}
		return fmt.Errorf("replace line items: %w", err)
	}
	return nil
}

func insertItems(ctx context.Context, tx pgx.Tx, cartID string, items []domain.LineItem) error {
	const stmt = `
INSERT INTO cart_items (cart_id, position, product_id, quantity)
VALUES ($1, $2, $3, $4)`

	for pos, item := range items {
		if _, err := tx.Exec(ctx, stmt, cartID, pos, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *CartRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}

func (r *CartRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}
