package listings

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

const listingCols = `salebuy_product_id, salebuy_category_id, created_by_user_id, full_name,
	place_name, product_description, price, phone_number, image_urls, is_active,
	created_at, updated_at`

func scanListing(row pgx.Row) (Listing, error) {
	var l Listing
	err := row.Scan(&l.ID, &l.CategoryID, &l.CreatedByUserID, &l.FullName, &l.PlaceName,
		&l.Description, &l.Price, &l.PhoneNumber, &l.ImageURLs, &l.IsActive,
		&l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func validateListing(in ListingInput) error {
	switch {
	case in.FullName == "":
		return apperr.Invalid("fullName", "required")
	case in.PlaceName == "":
		return apperr.Invalid("placeName", "required")
	case in.Description == "":
		return apperr.Invalid("productDescription", "required")
	case !in.Price.IsPositive():
		return apperr.Invalid("price", "must be positive")
	case in.PhoneNumber == "":
		return apperr.Invalid("phoneNumber", "required")
	case in.CategoryID == 0:
		return apperr.Invalid("saleBuyCategoryId", "required")
	}
	return nil
}

func (r *Repo) collect(ctx context.Context, query string, args ...any) ([]Listing, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) List(ctx context.Context) ([]Listing, error) {
	return r.collect(ctx,
		`SELECT `+listingCols+` FROM salebuy_products WHERE is_active ORDER BY created_at DESC`)
}

func (r *Repo) ByCategory(ctx context.Context, categoryID int64) ([]Listing, error) {
	return r.collect(ctx, `
		SELECT `+listingCols+` FROM salebuy_products
		WHERE is_active AND salebuy_category_id=$1 ORDER BY created_at DESC`, categoryID)
}

func (r *Repo) Get(ctx context.Context, listingID int64) (Listing, error) {
	l, err := scanListing(r.DB.QueryRow(ctx,
		`SELECT `+listingCols+` FROM salebuy_products WHERE salebuy_product_id=$1`, listingID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Listing{}, fmt.Errorf("listing %d: %w", listingID, apperr.ErrNotFound)
	}
	if err != nil {
		return Listing{}, fmt.Errorf("get listing %d: %w", listingID, err)
	}
	return l, nil
}

func (r *Repo) Create(ctx context.Context, userID int64, in ListingInput) (Listing, error) {
	if err := validateListing(in); err != nil {
		return Listing{}, err
	}
	l, err := scanListing(r.DB.QueryRow(ctx, `
		INSERT INTO salebuy_products(salebuy_category_id, created_by_user_id, full_name,
		                             place_name, product_description, price, phone_number, image_urls)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+listingCols,
		in.CategoryID, userID, in.FullName, in.PlaceName, in.Description,
		in.Price, in.PhoneNumber, in.ImageURLs))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return Listing{}, fmt.Errorf("category %d: %w", in.CategoryID, apperr.ErrNotFound)
	}
	if err != nil {
		return Listing{}, fmt.Errorf("create listing: %w", err)
	}
	return l, nil
}

// Update is restricted to the creating user unless admin is set.
func (r *Repo) Update(ctx context.Context, listingID, userID int64, admin bool, in ListingInput) (Listing, error) {
	if err := validateListing(in); err != nil {
		return Listing{}, err
	}
	existing, err := r.Get(ctx, listingID)
	if err != nil {
		return Listing{}, err
	}
	if !admin && existing.CreatedByUserID != userID {
		return Listing{}, fmt.Errorf("listing %d not owned by user %d: %w", listingID, userID, apperr.ErrForbidden)
	}
	l, err := scanListing(r.DB.QueryRow(ctx, `
		UPDATE salebuy_products SET salebuy_category_id=$2, full_name=$3, place_name=$4,
		       product_description=$5, price=$6, phone_number=$7, image_urls=$8, updated_at=now()
		WHERE salebuy_product_id=$1
		RETURNING `+listingCols,
		listingID, in.CategoryID, in.FullName, in.PlaceName, in.Description,
		in.Price, in.PhoneNumber, in.ImageURLs))
	if err != nil {
		return Listing{}, fmt.Errorf("update listing %d: %w", listingID, err)
	}
	return l, nil
}

func (r *Repo) Delete(ctx context.Context, listingID, userID int64, admin bool) error {
	existing, err := r.Get(ctx, listingID)
	if err != nil {
		return err
	}
	if !admin && existing.CreatedByUserID != userID {
		return fmt.Errorf("listing %d not owned by user %d: %w", listingID, userID, apperr.ErrForbidden)
	}
	_, err = r.DB.Exec(ctx, `DELETE FROM salebuy_products WHERE salebuy_product_id=$1`, listingID)
	if err != nil {
		return fmt.Errorf("delete listing %d: %w", listingID, err)
	}
	return nil
}
