package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brijmohangurjar/kishan/internal/apperr"
	"github.com/brijmohangurjar/kishan/internal/users"
)

type stubLoginService struct {
	requestOTP func(ctx context.Context, mobile string) error
	verifyOTP  func(ctx context.Context, mobile, code string) (string, users.User, error)
	register   func(ctx context.Context, in users.RegisterInput) (users.User, error)
}

func (s *stubLoginService) RequestOTP(ctx context.Context, mobile string) error {
	return s.requestOTP(ctx, mobile)
}

func (s *stubLoginService) VerifyOTP(ctx context.Context, mobile, code string) (string, users.User, error) {
	return s.verifyOTP(ctx, mobile, code)
}

func (s *stubLoginService) Register(ctx context.Context, in users.RegisterInput) (users.User, error) {
	return s.register(ctx, in)
}

type stubUserReader struct {
	byID func(ctx context.Context, userID int64) (users.User, error)
}

func (s *stubUserReader) ByID(ctx context.Context, userID int64) (users.User, error) {
	return s.byID(ctx, userID)
}

func newAuthRouter(login LoginService, reader UserReader) *chi.Mux {
	h := &AuthHandler{Login: login, Users: reader}
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func postJSON(t *testing.T, r http.Handler, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, &buf))
	return rec
}

func TestSendOTP(t *testing.T) {
	var requested string
	svc := &stubLoginService{
		requestOTP: func(_ context.Context, mobile string) error {
			requested = mobile
			return nil
		},
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/send-otp", map[string]string{"mobile": "9876543210"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "9876543210", requested)
}

func TestSendOTPUnregisteredMobile(t *testing.T) {
	svc := &stubLoginService{
		requestOTP: func(context.Context, string) error { return apperr.ErrNotFound },
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/send-otp", map[string]string{"mobile": "9876543210"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyOTPEndpoint(t *testing.T) {
	svc := &stubLoginService{
		verifyOTP: func(_ context.Context, mobile, code string) (string, users.User, error) {
			assert.Equal(t, "9876543210", mobile)
			assert.Equal(t, "123456", code)
			return "signed-token", users.User{ID: 1, Mobile: mobile, IsActive: true}, nil
		},
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": "123456"})
	require.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Token string     `json:"token"`
		User  users.User `json:"user"`
	}
	decodeBody(t, rec.Body, &got)
	assert.Equal(t, "signed-token", got.Token)
	assert.Equal(t, int64(1), got.User.ID)
}

func TestVerifyOTPWrongCodeEndpoint(t *testing.T) {
	svc := &stubLoginService{
		verifyOTP: func(context.Context, string, string) (string, users.User, error) {
			return "", users.User{}, users.ErrBadOTP
		},
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/verify-otp", map[string]string{"mobile": "9876543210", "otp": "000000"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &stubLoginService{
		register: func(_ context.Context, in users.RegisterInput) (users.User, error) {
			return users.User{ID: 9, Name: in.Name, Mobile: in.Mobile, IsActive: true}, nil
		},
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/register", users.RegisterInput{Name: "Sita", Mobile: "9123456780"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var got users.User
	decodeBody(t, rec.Body, &got)
	assert.Equal(t, int64(9), got.ID)
}

func TestRegisterDuplicateMobile(t *testing.T) {
	svc := &stubLoginService{
		register: func(context.Context, users.RegisterInput) (users.User, error) {
			return users.User{}, apperr.ErrConflict
		},
	}
	r := newAuthRouter(svc, nil)

	rec := postJSON(t, r, "/auth/register", users.RegisterInput{Name: "Sita", Mobile: "9123456780"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProfile(t *testing.T) {
	reader := &stubUserReader{
		byID: func(_ context.Context, userID int64) (users.User, error) {
			if userID != 1 {
				return users.User{}, apperr.ErrNotFound
			}
			return users.User{ID: 1, Name: "Ramesh"}, nil
		},
	}
	r := newAuthRouter(&stubLoginService{}, reader)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/profile/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/profile/2", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/profile/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
