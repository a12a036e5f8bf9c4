package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/auth"
)

type fakeUserStore struct {
	byMobile map[string]User
	nextID   int64
}

func (f *fakeUserStore) ByMobile(_ context.Context, mobile string) (User, error) {
	u, ok := f.byMobile[mobile]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) Create(_ context.Context, in RegisterInput) (User, error) {
	if _, exists := f.byMobile[in.Mobile]; exists {
		return User{}, apperr.ErrConflict
	}
	f.nextID++
	u := User{ID: f.nextID, Name: in.Name, Village: in.Village, Address: in.Address, Mobile: in.Mobile, IsActive: true}
	f.byMobile[in.Mobile] = u
	return u, nil
}

type memOTPStore struct{ codes map[string]string }

func (m *memOTPStore) Put(_ context.Context, mobile, code string) error {
	m.codes[mobile] = code
	return nil
}

func (m *memOTPStore) Get(_ context.Context, mobile string) (string, error) {
	return m.codes[mobile], nil
}

func (m *memOTPStore) Delete(_ context.Context, mobile string) error {
	delete(m.codes, mobile)
	return nil
}

type recordingSender struct{ messages []string }

func (r *recordingSender) Send(_ context.Context, _, message string) error {
	r.messages = append(r.messages, message)
	return nil
}

func newTestService() (*Service, *fakeUserStore, *memOTPStore, *recordingSender) {
	store := &fakeUserStore{byMobile: map[string]User{
		"9876543210": {ID: 1, Name: "Ramesh", Mobile: "9876543210", IsActive: true},
		"9000000000": {ID: 2, Name: "Blocked", Mobile: "9000000000", IsActive: false},
	}, nextID: 2}
	otp := &memOTPStore{codes: map[string]string{}}
	sender := &recordingSender{}
	svc := &Service{Users: store, OTP: otp, SMS: sender, Tokens: auth.NewTokens("test-secret", 1)}
	return svc, store, otp, sender
}

func TestRequestOTP(t *testing.T) {
	svc, _, otp, sender := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "9876543210"))

	code := otp.codes["9876543210"]
	require.Len(t, code, 6)
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], code)
}

func TestRequestOTPUnknownMobile(t *testing.T) {
	svc, _, _, sender := newTestService()

	err := svc.RequestOTP(context.Background(), "1234567890")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, sender.messages)
}

func TestRequestOTPRejectsBadMobile(t *testing.T) {
	svc, _, _, _ := newTestService()

	var ve *apperr.ValidationError
	assert.ErrorAs(t, svc.RequestOTP(context.Background(), "12345"), &ve)
	assert.ErrorAs(t, svc.RequestOTP(context.Background(), "98765x3210"), &ve)
}

func TestRequestOTPDisabledAccount(t *testing.T) {
	svc, _, _, sender := newTestService()

	err := svc.RequestOTP(context.Background(), "9000000000")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.Empty(t, sender.messages)
}

func TestVerifyOTP(t *testing.T) {
	svc, _, otp, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "9876543210"))
	code := otp.codes["9876543210"]

	token, u, err := svc.VerifyOTP(ctx, "9876543210", code)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	id, err := svc.Tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.UserID)
	assert.Equal(t, "9876543210", id.Mobile)

	// the code is consumed on first use
	_, _, err = svc.VerifyOTP(ctx, "9876543210", code)
	assert.ErrorIs(t, err, ErrBadOTP)
}

func TestVerifyOTPWrongCode(t *testing.T) {
	svc, _, otp, _ := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.RequestOTP(ctx, "9876543210"))

	_, _, err := svc.VerifyOTP(ctx, "9876543210", "000000")
	if otp.codes["9876543210"] == "000000" {
		t.Skip("generated code collided with the guess")
	}
	assert.ErrorIs(t, err, ErrBadOTP)
	assert.NotEmpty(t, otp.codes["9876543210"], "failed attempt must not consume the code")
}

func TestVerifyOTPWithoutRequest(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, _, err := svc.VerifyOTP(context.Background(), "9876543210", "123456")
	assert.ErrorIs(t, err, ErrBadOTP)
}

func TestRegister(t *testing.T) {
	svc, store, _, _ := newTestService()

	u, err := svc.Register(context.Background(), RegisterInput{
		Name: "Sita", Village: "Rampur", Mobile: "9123456780",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.True(t, u.IsActive)
	assert.Equal(t, "Sita", store.byMobile["9123456780"].Name)
}
