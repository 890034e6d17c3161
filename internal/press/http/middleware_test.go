package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/service"
)

// stubResolver resolves a single known token.
type stubResolver struct {
	token string
	user  domain.User
}

func (s *stubResolver) Resolve(_ context.Context, token string) (domain.User, error) {
	if token == s.token {
		return s.user, nil
	}
	return domain.User{}, service.ErrInvalidSession
}

func identityEcho(t *testing.T, captured **domain.Identity) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession(t *testing.T) {
	resolver := &stubResolver{
		token: "good-token",
		user:  domain.User{ID: 7, Username: "alice", IsAdmin: true, Active: true},
	}

	var got *domain.Identity
	handler := RequireSession(resolver)(identityEcho(t, &got))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.UserID)
		assert.Equal(t, "alice", got.Username)
		assert.True(t, got.IsAdmin)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalSession(t *testing.T) {
	resolver := &stubResolver{
		token: "good-token",
		user:  domain.User{ID: 7, Username: "alice", Active: true},
	}

	var got *domain.Identity
	handler := OptionalSession(resolver)(identityEcho(t, &got))

	t.Run("anonymous passes through", func(t *testing.T) {
		got = nil
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("invalid token treated as anonymous", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer stale")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		got = nil
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, got)
		assert.Equal(t, int64(7), got.UserID)
	})
}

func TestRequireAdmin(t *testing.T) {
	adminResolver := &stubResolver{token: "admin-token", user: domain.User{ID: 1, Username: "root", IsAdmin: true}}
	userResolver := &stubResolver{token: "user-token", user: domain.User{ID: 2, Username: "alice"}}

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("admin allowed", func(t *testing.T) {
		handler := RequireSession(adminResolver)(RequireAdmin()(ok))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer admin-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non-admin forbidden", func(t *testing.T) {
		handler := RequireSession(userResolver)(RequireAdmin()(ok))
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer user-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("anonymous forbidden", func(t *testing.T) {
		handler := RequireAdmin()(ok)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
