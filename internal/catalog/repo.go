package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `product_id, name, description, price, image_url,
	additional_image_urls, category, stock_quantity, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL,
		&p.AdditionalImageURLs, &p.Category, &p.StockQuantity, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *Repo) Get(ctx context.Context, productID int64) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx,
		`SELECT `+productCols+` FROM products WHERE product_id=$1`, productID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("get product %d: %w", productID, err)
	}
	return p, nil
}

func (r *Repo) collect(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// List returns active products for the storefront.
func (r *Repo) List(ctx context.Context) ([]Product, error) {
	return r.collect(ctx, `SELECT `+productCols+` FROM products WHERE is_active ORDER BY name`)
}

// ListAll returns every product, including inactive ones, for admin views.
func (r *Repo) ListAll(ctx context.Context) ([]Product, error) {
	return r.collect(ctx, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`)
}

func (r *Repo) ByCategory(ctx context.Context, category string) ([]Product, error) {
	return r.collect(ctx,
		`SELECT `+productCols+` FROM products WHERE is_active AND category=$1 ORDER BY name`, category)
}

func (r *Repo) Search(ctx context.Context, q string) ([]Product, error) {
	return r.collect(ctx,
		`SELECT `+productCols+` FROM products
		 WHERE is_active AND (name ILIKE '%'||$1||'%' OR description ILIKE '%'||$1||'%')
		 ORDER BY name`, q)
}

// CategoryNames returns the distinct category labels in use.
func (r *Repo) CategoryNames(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE category IS NOT NULL AND is_active ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func validateProduct(in ProductInput) error {
	if in.Name == "" {
		return apperr.Invalid("name", "required")
	}
	if !in.Price.IsPositive() {
		return apperr.Invalid("price", "must be positive")
	}
	if in.ImageURL == "" {
		return apperr.Invalid("imageUrl", "required")
	}
	return nil
}

func (r *Repo) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := validateProduct(in); err != nil {
		return Product{}, err
	}
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		INSERT INTO products(name, description, price, image_url, additional_image_urls,
		                     category, stock_quantity, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+productCols,
		in.Name, in.Description, in.Price, in.ImageURL, in.AdditionalImageURLs,
		in.Category, in.StockQuantity, in.IsActive))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, productID int64, in ProductInput) (Product, error) {
	if err := validateProduct(in); err != nil {
		return Product{}, err
	}
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET name=$2, description=$3, price=$4, image_url=$5,
		       additional_image_urls=$6, category=$7, stock_quantity=$8, is_active=$9,
		       updated_at=now()
		WHERE product_id=$1
		RETURNING `+productCols,
		productID, in.Name, in.Description, in.Price, in.ImageURL,
		in.AdditionalImageURLs, in.Category, in.StockQuantity, in.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	if err != nil {
		return Product{}, fmt.Errorf("update product %d: %w", productID, err)
	}
	return p, nil
}

// Delete removes a product. The order_items foreign key is RESTRICT, so a
// product referenced by order history cannot be deleted; that surfaces as
// ErrConflict.
func (r *Repo) Delete(ctx context.Context, productID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE product_id=$1`, productID)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return fmt.Errorf("product %d referenced by orders: %w", productID, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}
	return nil
}
