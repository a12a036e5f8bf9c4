package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const lineCols = `cart_id, user_id, product_id, quantity, created_at, updated_at`

func scanLine(row pgx.Row) (Line, error) {
	var l Line
	err := row.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

// AddOrIncrement upserts on the (user_id, product_id) unique key: a repeat
// add bumps the quantity of the existing line instead of inserting a
// second row.
func (r *Repo) AddOrIncrement(ctx context.Context, userID, productID int64, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, apperr.Invalid("quantity", "must be at least 1")
	}
	l, err := scanLine(r.DB.QueryRow(ctx, `
		INSERT INTO carts(user_id, product_id, quantity)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = carts.quantity + EXCLUDED.quantity, updated_at = now()
		RETURNING `+lineCols,
		userID, productID, quantity))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return Line{}, &apperr.InvalidReferenceError{ProductID: productID}
	}
	if err != nil {
		return Line{}, fmt.Errorf("add to cart: %w", err)
	}
	return l, nil
}

func (r *Repo) UpdateQuantity(ctx context.Context, cartID int64, quantity int) (Line, error) {
	if quantity <= 0 {
		return Line{}, apperr.Invalid("quantity", "must be at least 1")
	}
	l, err := scanLine(r.DB.QueryRow(ctx, `
		UPDATE carts SET quantity=$2, updated_at=now()
		WHERE cart_id=$1
		RETURNING `+lineCols,
		cartID, quantity))
	if errors.Is(err, pgx.ErrNoRows) {
		return Line{}, fmt.Errorf("cart line %d: %w", cartID, apperr.ErrNotFound)
	}
	if err != nil {
		return Line{}, fmt.Errorf("update cart line %d: %w", cartID, err)
	}
	return l, nil
}

// Remove deletes one line. It reports false when the line does not exist
// or belongs to a different user; the two cases are deliberately
// indistinguishable to the caller.
func (r *Repo) Remove(ctx context.Context, cartID, userID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM carts WHERE cart_id=$1 AND user_id=$2`, cartID, userID)
	if err != nil {
		return false, fmt.Errorf("remove cart line %d: %w", cartID, err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) ClearAll(ctx context.Context, userID int64) error {
	if _, err := r.DB.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID); err != nil {
		return fmt.Errorf("clear cart for user %d: %w", userID, err)
	}
	return nil
}

// Total sums current product price times quantity across the user's
// lines. The join is against the live catalog price, not a snapshot.
func (r *Repo) Total(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx, `
		SELECT COALESCE(SUM(p.price * c.quantity), 0)
		FROM carts c JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cart total for user %d: %w", userID, err)
	}
	return total, nil
}

func (r *Repo) ListForUser(ctx context.Context, userID int64) ([]Line, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.cart_id, c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
		       p.product_id, p.name, p.price, p.image_url, p.category
		FROM carts c JOIN products p ON p.product_id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Line
	for rows.Next() {
		var l Line
		var ps ProductSummary
		if err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Quantity, &l.CreatedAt, &l.UpdatedAt,
			&ps.ID, &ps.Name, &ps.Price, &ps.ImageURL, &ps.Category); err != nil {
			return nil, err
		}
		l.Product = &ps
		out = append(out, l)
	}
	return out, rows.Err()
}
