package admin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
)

type fakeAdminStore struct {
	byEmail     map[string]Admin
	lastLoginID int64
}

func (f *fakeAdminStore) ByEmail(_ context.Context, email string) (Admin, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return Admin{}, apperr.ErrNotFound
	}
	return a, nil
}

func (f *fakeAdminStore) Create(_ context.Context, in CreateInput, passwordHash string) (Admin, error) {
	a := Admin{ID: int64(len(f.byEmail) + 1), Name: in.Name, Email: in.Email, PasswordHash: passwordHash, Role: in.Role, IsActive: true}
	f.byEmail[in.Email] = a
	return a, nil
}

func (f *fakeAdminStore) TouchLogin(_ context.Context, adminID int64) error {
	f.lastLoginID = adminID
	return nil
}

func newTestAdminService(t *testing.T) (*Service, *fakeAdminStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &fakeAdminStore{byEmail: map[string]Admin{
		"admin@kishan.in":    {ID: 1, Name: "Root", Email: "admin@kishan.in", PasswordHash: string(hash), Role: "SuperAdmin", IsActive: true},
		"disabled@kishan.in": {ID: 2, Email: "disabled@kishan.in", PasswordHash: string(hash), IsActive: false},
	}}
	return &Service{Admins: store, Tokens: auth.NewTokens("test-secret", 1)}, store
}

func TestLogin(t *testing.T) {
	svc, store := newTestAdminService(t)

	token, a, err := svc.Login(context.Background(), "admin@kishan.in", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(1), store.lastLoginID)

	id, err := svc.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.AdminID)
	assert.Equal(t, "SuperAdmin", id.Role)
	assert.True(t, id.IsAdmin())
}

func TestLoginFailures(t *testing.T) {
	svc, store := newTestAdminService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, "admin@kishan.in", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, _, err = svc.Login(ctx, "nobody@kishan.in", "correct-horse")
	assert.ErrorIs(t, err, ErrBadCredentials)

	// disabled accounts are indistinguishable from bad credentials
	_, _, err = svc.Login(ctx, "disabled@kishan.in", "correct-horse")
	assert.ErrorIs(t, err, ErrBadCredentials)

	var ve *apperr.ValidationError
	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorAs(t, err, &ve)

	assert.Zero(t, store.lastLoginID)
}

func TestCreateAdmin(t *testing.T) {
	svc, store := newTestAdminService(t)
	ctx := context.Background()

	a, err := svc.CreateAdmin(ctx, CreateInput{Name: "Ops", Email: "ops@kishan.in", Password: "long-enough", Role: "Admin"})
	require.NoError(t, err)
	assert.True(t, a.IsActive)

	stored := store.byEmail["ops@kishan.in"]
	assert.NotEqual(t, "long-enough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("long-enough")))

	var ve *apperr.ValidationError
	_, err = svc.CreateAdmin(ctx, CreateInput{Email: "x@y.z", Password: "short"})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)

	_, err = svc.CreateAdmin(ctx, CreateInput{Password: "long-enough"})
	assert.ErrorAs(t, err, &ve)
}
