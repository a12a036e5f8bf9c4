package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

const sbCategoryCols = `salebuy_category_id, name, description, image_url, is_active, created_at, updated_at`

func scanSBCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repo) Categories(ctx context.Context, onlyActive bool) ([]Category, error) {
	query := `SELECT ` + sbCategoryCols + ` FROM salebuy_categories ORDER BY name`
	if onlyActive {
		query = `SELECT ` + sbCategoryCols + ` FROM salebuy_categories WHERE is_active ORDER BY name`
	}
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanSBCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, categoryID int64) (Category, error) {
	c, err := scanSBCategory(r.DB.QueryRow(ctx,
		`SELECT `+sbCategoryCols+` FROM salebuy_categories WHERE salebuy_category_id=$1`, categoryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("salebuy category %d: %w", categoryID, apperr.ErrNotFound)
	}
	if err != nil {
		return Category{}, fmt.Errorf("get salebuy category %d: %w", categoryID, err)
	}
	return c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if in.Name == "" {
		return Category{}, apperr.Invalid("name", "required")
	}
	c, err := scanSBCategory(r.DB.QueryRow(ctx, `
		INSERT INTO salebuy_categories(name, description, image_url, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING `+sbCategoryCols,
		in.Name, in.Description, in.ImageURL, in.IsActive))
	if err != nil {
		return Category{}, fmt.Errorf("create salebuy category: %w", err)
	}
	return c, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, categoryID int64, in CategoryInput) (Category, error) {
	if in.Name == "" {
		return Category{}, apperr.Invalid("name", "required")
	}
	c, err := scanSBCategory(r.DB.QueryRow(ctx, `
		UPDATE salebuy_categories SET name=$2, description=$3, image_url=$4, is_active=$5, updated_at=now()
		WHERE salebuy_category_id=$1
		RETURNING `+sbCategoryCols,
		categoryID, in.Name, in.Description, in.ImageURL, in.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("salebuy category %d: %w", categoryID, apperr.ErrNotFound)
	}
	if err != nil {
		return Category{}, fmt.Errorf("update salebuy category %d: %w", categoryID, err)
	}
	return c, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, categoryID int64) error {
	ct, err := r.DB.Exec(ctx,
		`DELETE FROM salebuy_categories WHERE salebuy_category_id=$1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete salebuy category %d: %w", categoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("salebuy category %d: %w", categoryID, apperr.ErrNotFound)
	}
	return nil
}
