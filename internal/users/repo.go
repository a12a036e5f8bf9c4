package users

import (
	"context"
	"errors"
	"fmt"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Repo struct{ DB *pgxpool.Pool }

const userCols = `user_id, name, village, address, mobile, is_active, created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Village, &u.Address, &u.Mobile,
		&u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func validMobile(m string) bool {
	if len(m) != 10 {
		return false
	}
	for _, r := range m {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (r *Repo) Create(ctx context.Context, in RegisterInput) (User, error) {
	if in.Name == "" {
		return User{}, apperr.Invalid("name", "required")
	}
	if !validMobile(in.Mobile) {
		return User{}, apperr.Invalid("mobile", "must be 10 digits")
	}
	u, err := scanUser(r.DB.QueryRow(ctx, `
		INSERT INTO users(name, village, address, mobile)
		VALUES ($1,$2,$3,$4)
		RETURNING `+userCols,
		in.Name, in.Village, in.Address, in.Mobile))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return User{}, fmt.Errorf("mobile already registered: %w", apperr.ErrConflict)
	}
	if err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (r *Repo) ByMobile(ctx context.Context, mobile string) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE mobile=$1`, mobile))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user with mobile %s: %w", mobile, apperr.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("user by mobile: %w", err)
	}
	return u, nil
}

func (r *Repo) ByID(ctx context.Context, userID int64) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE user_id=$1`, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("get user %d: %w", userID, err)
	}
	return u, nil
}

func (r *Repo) Update(ctx context.Context, userID int64, in UpdateInput) (User, error) {
	u, err := scanUser(r.DB.QueryRow(ctx, `
		UPDATE users SET
			name    = COALESCE(NULLIF($2,''), name),
			village = COALESCE(NULLIF($3,''), village),
			address = COALESCE(NULLIF($4,''), address),
			updated_at = now()
		WHERE user_id=$1
		RETURNING `+userCols,
		userID, in.Name, in.Village, in.Address))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("update user %d: %w", userID, err)
	}
	return u, nil
}

func (r *Repo) SetActive(ctx context.Context, userID int64, active bool) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active=$2, updated_at=now() WHERE user_id=$1`, userID, active)
	if err != nil {
		return fmt.Errorf("set user %d active: %w", userID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, apperr.ErrNotFound)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID int64) (bool, error) {
	ct, err := r.DB.Exec(ctx, `DELETE FROM users WHERE user_id=$1`, userID)
	if err != nil {
		return false, fmt.Errorf("delete user %d: %w", userID, err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+userCols+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}
