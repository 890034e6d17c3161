package service

import (
	"context"
	"errors"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/cryptox"
	"github.com/pressroomhq/pressroom/pkg/idx"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// DefaultSessionLifetime is used when the service is not configured with one.
const DefaultSessionLifetime = 7 * 24 * time.Hour

// AuthService owns login, logout and session resolution. Session tokens are
// opaque random strings handed to the client once; only their SHA-256
// fingerprint is stored.
type AuthService struct {
	Store store.Store

	// SessionLifetime bounds how long a session stays valid. Zero means
	// DefaultSessionLifetime.
	SessionLifetime time.Duration

	// Now is the clock. Nil means time.Now. Tests override it.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) lifetime() time.Duration {
	if s.SessionLifetime > 0 {
		return s.SessionLifetime
	}
	return DefaultSessionLifetime
}

// LoginResult carries the plaintext session token. It is returned to the
// client exactly once and never stored.
type LoginResult struct {
	Token   string
	Session domain.Session
	User    domain.User
}

// Login authenticates a username/password pair and mints a session. Every
// failure mode returns ErrInvalidCredentials so callers cannot probe which
// usernames exist or which accounts are disabled.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Look up the account. Inactive accounts are filtered by the store
	//    so they fail identically to unknown usernames.
	user, err := s.Store.Users().GetActiveUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so missing users are not obviously
			// faster than wrong passwords.
			_ = cryptox.VerifyPassword(password, dummyHash)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	// 2. Verify the password against the stored argon2 hash.
	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	// 3. Mint the opaque token and its stored fingerprint.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return LoginResult{}, err
	}

	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    user.ID,
		TokenHash: cryptox.FingerprintToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime()),
	}

	// 4. Record the session and the login time atomically.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Sessions().CreateSession(ctx, session); err != nil {
			return err
		}
		return tx.Users().UpdateLastLogin(ctx, user.ID, now)
	})
	if err != nil {
		return LoginResult{}, err
	}

	lastLogin := now
	user.LastLoginAt = &lastLogin

	log.Info("user logged in", "user_id", user.ID, "session_id", session.ID)

	return LoginResult{Token: token, Session: session, User: user}, nil
}

// Logout revokes the session behind a token. Unknown tokens are a no-op so
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.Store.Sessions().DeleteSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
}

// Resolve maps a session token to its user. Expired sessions, revoked
// sessions and sessions of deactivated users all return ErrInvalidSession.
func (s *AuthService) Resolve(ctx context.Context, token string) (domain.User, error) {
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token), s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidSession
		}
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidSession
		}
		return domain.User{}, err
	}

	// Deactivation revokes sessions, but a session created before the
	// sweep must still be refused.
	if !user.Active {
		return domain.User{}, ErrInvalidSession
	}

	return user, nil
}

// dummyHash is a throwaway argon2 hash verified on unknown-username logins
// to keep timing roughly uniform. The password behind it is never accepted.
const dummyHash = "$argon2id$v=19$m=19456,t=2,p=1$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"
