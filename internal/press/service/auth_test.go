package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return &AuthService{Store: newTestStore(t), Now: func() time.Time { return testNow }}
}

func TestLoginSuccess(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	seedUser(t, svc.Store, "alice", "Secret@123", false)

	res, err := svc.Login(ctx, "alice", "Secret@123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "alice", res.User.Username)
	require.NotNil(t, res.User.LastLoginAt)
	assert.True(t, res.User.LastLoginAt.Equal(testNow))
	assert.True(t, res.Session.ExpiresAt.Equal(testNow.Add(DefaultSessionLifetime)))

	// The token resolves back to the user.
	user, err := svc.Resolve(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u := seedUser(t, svc.Store, "alice", "Secret@123", false)
	u.Active = false
	require.NoError(t, svc.Store.Users().UpdateUser(ctx, u))

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "Secret@123"},
		{"wrong password", "alice", "Wrong@123"},
		{"inactive account", "alice", "Secret@123"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tc.username, tc.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	seedUser(t, svc.Store, "alice", "Secret@123", false)
	res, err := svc.Login(ctx, "alice", "Secret@123")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Token))

	_, err = svc.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)

	// Logging out again is a no-op.
	assert.NoError(t, svc.Logout(ctx, res.Token))
}

func TestResolveExpiredSession(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	seedUser(t, svc.Store, "alice", "Secret@123", false)
	res, err := svc.Login(ctx, "alice", "Secret@123")
	require.NoError(t, err)

	// Move the clock past the session lifetime.
	svc.Now = func() time.Time { return testNow.Add(DefaultSessionLifetime + time.Second) }

	_, err = svc.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveRejectsDeactivatedUser(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	u := seedUser(t, svc.Store, "alice", "Secret@123", false)
	res, err := svc.Login(ctx, "alice", "Secret@123")
	require.NoError(t, err)

	u.Active = false
	require.NoError(t, svc.Store.Users().UpdateUser(ctx, u))

	_, err = svc.Resolve(ctx, res.Token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestResolveGarbageToken(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Resolve(context.Background(), "not-a-real-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestCustomSessionLifetime(t *testing.T) {
	svc := newAuthService(t)
	svc.SessionLifetime = time.Hour
	ctx := context.Background()

	seedUser(t, svc.Store, "alice", "Secret@123", false)
	res, err := svc.Login(ctx, "alice", "Secret@123")
	require.NoError(t, err)
	assert.True(t, res.Session.ExpiresAt.Equal(testNow.Add(time.Hour)))
}
