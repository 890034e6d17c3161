package service

import (
	"context"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/cryptox"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// SettingSiteInitialized records when the initial admin was seeded.
const SettingSiteInitialized = "site_initialized"

// BootstrapService seeds the first admin account so a fresh deployment is
// reachable without manual database edits.
type BootstrapService struct {
	Store store.Store

	// AdminUsername and AdminEmail describe the seeded account.
	AdminUsername string
	AdminEmail    string

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

func (s *BootstrapService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// EnsureAdmin creates the initial admin when the user table is empty. The
// generated password is logged exactly once; it is not stored anywhere in
// plaintext, so losing the log line means reseeding the database.
func (s *BootstrapService) EnsureAdmin(ctx context.Context) error {
	empty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}

	password, err := cryptox.GenerateStrongPassword(cryptox.DefaultPasswordLength)
	if err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	var id int64
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		uid, err := tx.Users().CreateUser(ctx, domain.User{
			Username:     s.AdminUsername,
			Email:        s.AdminEmail,
			PasswordHash: hash,
			IsAdmin:      true,
			Active:       true,
			CreatedAt:    s.now(),
		})
		if err != nil {
			return err
		}
		id = uid
		return tx.Settings().Set(ctx, SettingSiteInitialized, s.now().Format(time.RFC3339))
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Warn("seeded initial admin account; change this password after first login",
		"user_id", id, "username", s.AdminUsername, "password", password)
	return nil
}
