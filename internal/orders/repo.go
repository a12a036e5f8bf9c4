package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

var ErrBadTransition = errors.New("invalid status transition")

// maxNumberAttempts bounds the regenerate-on-collision loop for order
// numbers. The unique index on orders.order_number is the backstop.
const maxNumberAttempts = 3

const orderCols = `order_id, user_id, order_number, total_amount, status, payment_method,
	delivery_address, delivery_village, order_date, shipped_date, delivered_date,
	created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.Status,
		&o.PaymentMethod, &o.DeliveryAddress, &o.DeliveryVillage, &o.OrderDate,
		&o.ShippedDate, &o.DeliveredDate, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func validatePlace(in PlaceInput) error {
	if in.PaymentMethod == "" {
		return apperr.Invalid("paymentMethod", "required")
	}
	if len(in.Items) == 0 {
		return apperr.Invalid("orderItems", "at least one item required")
	}
	for _, it := range in.Items {
		if it.Quantity <= 0 {
			return apperr.Invalid("quantity", fmt.Sprintf("must be at least 1 for product %d", it.ProductID))
		}
	}
	return nil
}

// PlaceOrder creates the order, its item snapshots, and clears the user's
// cart in one transaction. Either all of it commits or none of it does.
// The caller-supplied items are ground truth; the cart is cleared wholesale
// whether or not it matches them.
func (r *Repo) PlaceOrder(ctx context.Context, userID int64, in PlaceInput) (Order, error) {
	if err := validatePlace(in); err != nil {
		return Order{}, err
	}

	for attempt := 0; ; attempt++ {
		o, err := r.placeOrderOnce(ctx, userID, in)
		if isUniqueViolation(err) && attempt+1 < maxNumberAttempts {
			continue // order number collided, regenerate and retry
		}
		return o, err
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "orders_order_number_key"
}

func (r *Repo) placeOrderOnce(ctx context.Context, userID int64, in PlaceInput) (Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	var o Order
	err = tx.QueryRow(ctx, `
		INSERT INTO orders(user_id, order_number, total_amount, status, payment_method,
		                   delivery_address, delivery_village, order_date)
		VALUES ($1, $2, 0, $3, $4, $5, $6, $7)
		RETURNING `+orderCols,
		userID, NewOrderNumber(now), StatusProcessing, in.PaymentMethod,
		in.DeliveryAddress, in.DeliveryVillage, now).Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.TotalAmount, &o.Status,
		&o.PaymentMethod, &o.DeliveryAddress, &o.DeliveryVillage, &o.OrderDate,
		&o.ShippedDate, &o.DeliveredDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, err
	}

	for _, it := range in.Items {
		// Resolve inside the transaction so price and name are consistent
		// with what gets snapshotted. Inactive products cannot be ordered.
		var name, imageURL string
		var price decimal.Decimal
		err := tx.QueryRow(ctx,
			`SELECT name, price, image_url FROM products WHERE product_id=$1 AND is_active`,
			it.ProductID).Scan(&name, &price, &imageURL)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, &apperr.InvalidReferenceError{ProductID: it.ProductID}
		}
		if err != nil {
			return Order{}, fmt.Errorf("resolve product %d: %w", it.ProductID, err)
		}

		var item Item
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items(order_id, product_id, product_name, unit_price,
			                        quantity, total_price, product_image_url)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			RETURNING order_item_id, order_id, product_id, product_name, unit_price,
			          quantity, total_price, product_image_url, created_at`,
			o.ID, it.ProductID, name, price, it.Quantity, itemTotal(price, it.Quantity), imageURL).Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPrice,
			&item.Quantity, &item.TotalPrice, &item.ProductImageURL, &item.CreatedAt)
		if err != nil {
			return Order{}, fmt.Errorf("insert order item: %w", err)
		}
		o.Items = append(o.Items, item)
	}

	total := orderTotal(o.Items)
	if _, err := tx.Exec(ctx,
		`UPDATE orders SET total_amount=$2 WHERE order_id=$1`, o.ID, total); err != nil {
		return Order{}, fmt.Errorf("set order total: %w", err)
	}
	o.TotalAmount = total

	if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID); err != nil {
		return Order{}, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit order: %w", err)
	}
	return o, nil
}

func (r *Repo) itemsFor(ctx context.Context, orderID int64) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT order_item_id, order_id, product_id, product_name, unit_price,
		       quantity, total_price, product_image_url, created_at
		FROM order_items WHERE order_id=$1 ORDER BY order_item_id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName,
			&it.UnitPrice, &it.Quantity, &it.TotalPrice, &it.ProductImageURL, &it.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) GetByID(ctx context.Context, orderID int64) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx,
		`SELECT `+orderCols+` FROM orders WHERE order_id=$1`, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return Order{}, fmt.Errorf("get order %d: %w", orderID, err)
	}
	if o.Items, err = r.itemsFor(ctx, orderID); err != nil {
		return Order{}, fmt.Errorf("load items for order %d: %w", orderID, err)
	}
	return o, nil
}

func (r *Repo) collect(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].Items, err = r.itemsFor(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ListByUser returns the user's orders, most recent first, with items.
func (r *Repo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return r.collect(ctx,
		`SELECT `+orderCols+` FROM orders WHERE user_id=$1 ORDER BY order_date DESC`, userID)
}

// ListAll returns every order, most recent first, for admin views.
func (r *Repo) ListAll(ctx context.Context) ([]Order, error) {
	return r.collect(ctx, `SELECT `+orderCols+` FROM orders ORDER BY order_date DESC`)
}

// SetStatus applies a status change. Shipped and Delivered stamp their
// dates with now when no explicit value is supplied and the column is
// still unset; other statuses touch neither date.
func (r *Repo) SetStatus(ctx context.Context, orderID int64, status Status, shippedAt, deliveredAt *time.Time) (Order, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return Order{}, fmt.Errorf("begin status tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current Status
	var curShipped, curDelivered *time.Time
	err = tx.QueryRow(ctx,
		`SELECT status, shipped_date, delivered_date FROM orders WHERE order_id=$1 FOR UPDATE`,
		orderID).Scan(&current, &curShipped, &curDelivered)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	if err != nil {
		return Order{}, fmt.Errorf("load order %d: %w", orderID, err)
	}
	if !CanTransition(current, status) {
		return Order{}, fmt.Errorf("%s -> %s: %w", current, status, ErrBadTransition)
	}

	shipped, delivered := resolveStatusDates(status, curShipped, curDelivered,
		shippedAt, deliveredAt, time.Now().UTC())

	o, err := scanOrder(tx.QueryRow(ctx, `
		UPDATE orders SET status=$2, shipped_date=$3, delivered_date=$4, updated_at=now()
		WHERE order_id=$1
		RETURNING `+orderCols,
		orderID, status, shipped, delivered))
	if err != nil {
		return Order{}, fmt.Errorf("update order %d status: %w", orderID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Order{}, fmt.Errorf("commit status update: %w", err)
	}
	if o.Items, err = r.itemsFor(ctx, orderID); err != nil {
		return Order{}, fmt.Errorf("load items for order %d: %w", orderID, err)
	}
	return o, nil
}

// Delete removes an order and, via cascade, its items. Admin only.
func (r *Repo) Delete(ctx context.Context, orderID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE order_id=$1`, orderID)
	if err != nil {
		return false, fmt.Errorf("delete order %d: %w", orderID, err)
	}
	return ct.RowsAffected() > 0, nil
}

// Total recomputes the item sum for one order.
func (r *Repo) Total(ctx context.Context, orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(total_price), 0) FROM order_items WHERE order_id=$1`,
		orderID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("order %d total: %w", orderID, err)
	}
	return total, nil
}

// GetStats aggregates the dashboard numbers: order counts, revenue from
// delivered orders, and the most recent orders.
func (r *Repo) GetStats(ctx context.Context, recentN int) (Stats, error) {
	var s Stats
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = $1),
		       COALESCE(SUM(total_amount) FILTER (WHERE status = $2), 0)
		FROM orders`, StatusProcessing, StatusDelivered).
		Scan(&s.OrderCount, &s.PendingCount, &s.TotalRevenue)
	if err != nil {
		return Stats{}, fmt.Errorf("order stats: %w", err)
	}
	s.Recent, err = r.collect(ctx,
		`SELECT `+orderCols+` FROM orders ORDER BY order_date DESC LIMIT $1`, recentN)
	if err != nil {
		return Stats{}, fmt.Errorf("recent orders: %w", err)
	}
	return s, nil
}
