package admin

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
)

// AdminStore is the subset of Repo the login service needs.
type AdminStore interface {
	ByEmail(ctx context.Context, email string) (Admin, error)
	Create(ctx context.Context, in CreateInput, passwordHash string) (Admin, error)
	TouchLogin(ctx context.Context, adminID int64) error
}

var ErrBadCredentials = errors.New("invalid email or password")

type Service struct {
	Admins AdminStore
	Tokens *auth.Tokens
}

// Login verifies the bcrypt hash and issues an admin token. Disabled
// accounts fail the same way as wrong credentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, Admin, error) {
	if email == "" || password == "" {
		return "", Admin{}, apperr.Invalid("credentials", "email and password required")
	}
	a, err := s.Admins.ByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return "", Admin{}, ErrBadCredentials
	}
	if err != nil {
		return "", Admin{}, err
	}
	if !a.IsActive {
		return "", Admin{}, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return "", Admin{}, ErrBadCredentials
	}

	token, err := s.Tokens.Issue(auth.Identity{AdminID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role})
	if err != nil {
		return "", Admin{}, fmt.Errorf("issue token: %w", err)
	}
	if err := s.Admins.TouchLogin(ctx, a.ID); err != nil {
		return "", Admin{}, fmt.Errorf("touch login: %w", err)
	}
	return token, a, nil
}

// CreateAdmin hashes the password and stores the account.
func (s *Service) CreateAdmin(ctx context.Context, in CreateInput) (Admin, error) {
	if in.Email == "" {
		return Admin{}, apperr.Invalid("email", "required")
	}
	if len(in.Password) < 8 {
		return Admin{}, apperr.Invalid("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Admin{}, fmt.Errorf("hash password: %w", err)
	}
	return s.Admins.Create(ctx, in, string(hash))
}
