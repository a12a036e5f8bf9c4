package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	tokens := NewTokens("test-secret", 1)

	token, err := tokens.Issue(Identity{UserID: 42, Name: "Ramesh", Mobile: "9876543210"})
	require.NoError(t, err)

	id, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id.UserID)
	assert.Equal(t, "Ramesh", id.Name)
	assert.Equal(t, "9876543210", id.Mobile)
	assert.False(t, id.IsAdmin())
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokens("test-secret", 1)

	_, err := tokens.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens("different-secret", 1)
	token, err := other.Issue(Identity{UserID: 1})
	require.NoError(t, err)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireUser(t *testing.T) {
	tokens := NewTokens("test-secret", 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := FromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(7), id.UserID)
		w.WriteHeader(http.StatusNoContent)
	})
	h := tokens.RequireUser(next)

	// no token
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// admin token on a user route
	adminToken, err := tokens.Issue(Identity{AdminID: 3})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// valid user token
	userToken, err := tokens.Issue(Identity{UserID: 7})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := NewTokens("test-secret", 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := FromContext(r.Context())
		assert.True(t, id.IsAdmin())
		w.WriteHeader(http.StatusNoContent)
	})
	h := tokens.RequireAdmin(next)

	userToken, err := tokens.Issue(Identity{UserID: 7})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+userToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	adminToken, err := tokens.Issue(Identity{AdminID: 3, Role: "Admin"})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
