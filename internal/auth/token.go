package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the authenticated caller. Exactly one of UserID/AdminID is
// set depending on which login flow issued the token.
type Identity struct {
	UserID  int64
	AdminID int64
	Name    string
	Mobile  string
	Email   string
	Role    string
}

func (id Identity) IsAdmin() bool { return id.AdminID != 0 }

type claims struct {
	UserID  int64  `json:"user_id,omitempty"`
	AdminID int64  `json:"admin_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

type Tokens struct {
	secret []byte
	expiry time.Duration
}

func NewTokens(secret string, expiryHours int) *Tokens {
	return &Tokens{secret: []byte(secret), expiry: time.Duration(expiryHours) * time.Hour}
}

func (t *Tokens) Issue(id Identity) (string, error) {
	now := time.Now().UTC()
	c := claims{
		UserID:  id.UserID,
		AdminID: id.AdminID,
		Name:    id.Name,
		Mobile:  id.Mobile,
		Email:   id.Email,
		Role:    id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

func (t *Tokens) Verify(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		UserID:  c.UserID,
		AdminID: c.AdminID,
		Name:    c.Name,
		Mobile:  c.Mobile,
		Email:   c.Email,
		Role:    c.Role,
	}, nil
}
