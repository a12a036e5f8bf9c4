package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const adminCols = `admin_id, name, email, password, role, is_active, last_login_at, created_at, updated_at`

func scanAdmin(row pgx.Row) (Admin, error) {
	var a Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.IsActive, &a.LastLoginAt, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func (r *Repo) ByEmail(ctx context.Context, email string) (Admin, error) {
	a, err := scanAdmin(r.DB.QueryRow(ctx,
		`SELECT `+adminCols+` FROM admins WHERE email=$1`, strings.ToLower(email)))
	if errors.Is(err, pgx.ErrNoRows) {
		return Admin{}, fmt.Errorf("admin %s: %w", email, apperr.ErrNotFound)
	}
	if err != nil {
		return Admin{}, fmt.Errorf("admin by email: %w", err)
	}
	return a, nil
}

func (r *Repo) Create(ctx context.Context, in CreateInput, passwordHash string) (Admin, error) {
	role := in.Role
	if role == "" {
		role = "Admin"
	}
	a, err := scanAdmin(r.DB.QueryRow(ctx, `
		INSERT INTO admins(name, email, password, role)
		VALUES ($1,$2,$3,$4)
		RETURNING `+adminCols,
		in.Name, strings.ToLower(in.Email), passwordHash, role))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return Admin{}, fmt.Errorf("email already registered: %w", apperr.ErrConflict)
	}
	if err != nil {
		return Admin{}, fmt.Errorf("create admin: %w", err)
	}
	return a, nil
}

func (r *Repo) TouchLogin(ctx context.Context, adminID int64) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE admins SET last_login_at=now() WHERE admin_id=$1`, adminID)
	return err
}

// ListActive returns active admins without their password hashes exposed
// (the hash never serializes, but callers still only see active rows).
func (r *Repo) ListActive(ctx context.Context) ([]Admin, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+adminCols+` FROM admins WHERE is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Admin
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Deactivate soft-deletes an admin account.
func (r *Repo) Deactivate(ctx context.Context, adminID int64) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE admins SET is_active=FALSE, updated_at=now() WHERE admin_id=$1`, adminID)
	if err != nil {
		return fmt.Errorf("deactivate admin %d: %w", adminID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("admin %d: %w", adminID, apperr.ErrNotFound)
	}
	return nil
}
