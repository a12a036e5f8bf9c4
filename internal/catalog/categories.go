package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

const categoryCols = `category_id, name, description, image_url, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *Repo) Categories(ctx context.Context, onlyActive bool) ([]Category, error) {
	query := `SELECT ` + categoryCols + ` FROM categories ORDER BY name`
	if onlyActive {
		query = `SELECT ` + categoryCols + ` FROM categories WHERE is_active ORDER BY name`
	}
	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) GetCategory(ctx context.Context, categoryID int64) (Category, error) {
	c, err := scanCategory(r.DB.QueryRow(ctx,
		`SELECT `+categoryCols+` FROM categories WHERE category_id=$1`, categoryID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	if err != nil {
		return Category{}, fmt.Errorf("get category %d: %w", categoryID, err)
	}
	return c, nil
}

func (r *Repo) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if in.Name == "" {
		return Category{}, apperr.Invalid("name", "required")
	}
	c, err := scanCategory(r.DB.QueryRow(ctx, `
		INSERT INTO categories(name, description, image_url, is_active)
		VALUES ($1,$2,$3,$4)
		RETURNING `+categoryCols,
		in.Name, in.Description, in.ImageURL, in.IsActive))
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repo) UpdateCategory(ctx context.Context, categoryID int64, in CategoryInput) (Category, error) {
	if in.Name == "" {
		return Category{}, apperr.Invalid("name", "required")
	}
	c, err := scanCategory(r.DB.QueryRow(ctx, `
		UPDATE categories SET name=$2, description=$3, image_url=$4, is_active=$5, updated_at=now()
		WHERE category_id=$1
		RETURNING `+categoryCols,
		categoryID, in.Name, in.Description, in.ImageURL, in.IsActive))
	if errors.Is(err, pgx.ErrNoRows) {
		return Category{}, fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	if err != nil {
		return Category{}, fmt.Errorf("update category %d: %w", categoryID, err)
	}
	return c, nil
}

func (r *Repo) DeleteCategory(ctx context.Context, categoryID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM categories WHERE category_id=$1`, categoryID)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", categoryID, apperr.ErrNotFound)
	}
	return nil
}

type CategoryStats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

func (r *Repo) CategoryStats(ctx context.Context) (CategoryStats, error) {
	var s CategoryStats
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active) FROM categories`).
		Scan(&s.Total, &s.Active)
	return s, err
}
