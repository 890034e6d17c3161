package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/cryptox"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// CredentialMailer delivers generated credentials to a user. reset is true
// when an existing account's password was regenerated rather than created.
type CredentialMailer interface {
	SendCredentials(ctx context.Context, to, username, password string, reset bool) error
}

// UserService owns account management. Authorization (admin-only) is
// enforced at the HTTP layer; password changes are the one self-service
// operation.
type UserService struct {
	Store store.Store

	// Mailer delivers generated passwords. Nil disables delivery; the
	// result then carries the plaintext for one-time display instead.
	Mailer CredentialMailer

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

func (s *UserService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *UserService) List(ctx context.Context) ([]domain.UserListing, error) {
	return s.Store.Users().ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

type CreateUserInput struct {
	Username string
	Email    string
	IsAdmin  bool
}

// CreateUserResult carries the generated plaintext password. It exists only
// in this result for one-time delivery and is never persisted.
type CreateUserResult struct {
	User     domain.User
	Password string

	// Mailed is true only when the credentials were actually sent. It
	// stays false when no mailer is configured, so the caller knows the
	// plaintext must be relayed some other way.
	Mailed bool

	// MailErr reports a failed credential delivery. The account still
	// exists; the caller decides how to surface the failure.
	MailErr error
}

// Create provisions an account with a generated strong password.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (CreateUserResult, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return CreateUserResult{}, ErrInvalidInput
	}

	// 1. Generate credentials before touching the database.
	password, err := cryptox.GenerateStrongPassword(cryptox.DefaultPasswordLength)
	if err != nil {
		return CreateUserResult{}, err
	}
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return CreateUserResult{}, err
	}

	user := domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		IsAdmin:      in.IsAdmin,
		Active:       true,
		CreatedAt:    s.now(),
	}

	// 2. Insert; duplicate username/email maps to ErrDuplicate.
	id, err := s.Store.Users().CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return CreateUserResult{}, ErrDuplicate
		}
		return CreateUserResult{}, err
	}
	user.ID = id

	slogx.FromContext(ctx).Info("user created", "user_id", id, "username", in.Username, "is_admin", in.IsAdmin)

	// 3. Deliver the credentials. Delivery failure does not undo the
	//    account.
	res := CreateUserResult{User: user, Password: password}
	res.Mailed, res.MailErr = s.deliver(ctx, user, password, false)
	return res, nil
}

type UpdateUserInput struct {
	Username      string
	Email         string
	IsAdmin       bool
	Active        bool
	ResetPassword bool
}

type UpdateUserResult struct {
	User domain.User

	// Password is set only when the update regenerated it. Mailed and
	// MailErr then report the delivery exactly as on Create.
	Password string
	Mailed   bool
	MailErr  error
}

// Update mutates an account and optionally regenerates its password. A
// password reset or a deactivation revokes every session of the user.
func (s *UserService) Update(ctx context.Context, userID int64, in UpdateUserInput) (UpdateUserResult, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return UpdateUserResult{}, ErrInvalidInput
	}

	var (
		password string
		user     domain.User
	)

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 1. Load the current record.
		current, err := tx.Users().GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		wasActive := current.Active

		// 2. Apply the profile fields.
		current.Username = in.Username
		current.Email = in.Email
		current.IsAdmin = in.IsAdmin
		current.Active = in.Active
		if err := tx.Users().UpdateUser(ctx, current); err != nil {
			return err
		}

		// 3. Regenerate the password if asked.
		if in.ResetPassword {
			password, err = cryptox.GenerateStrongPassword(cryptox.DefaultPasswordLength)
			if err != nil {
				return err
			}
			hash, err := cryptox.HashPassword(password)
			if err != nil {
				return err
			}
			if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
				return err
			}
		}

		// 4. A reset or a deactivation invalidates live sessions.
		if in.ResetPassword || (wasActive && !in.Active) {
			if err := tx.Sessions().DeleteUserSessions(ctx, userID); err != nil {
				return err
			}
		}

		user = current
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return UpdateUserResult{}, ErrNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return UpdateUserResult{}, ErrDuplicate
		}
		return UpdateUserResult{}, err
	}

	slogx.FromContext(ctx).Info("user updated",
		"user_id", userID, "active", in.Active, "is_admin", in.IsAdmin, "password_reset", in.ResetPassword)

	res := UpdateUserResult{User: user, Password: password}
	if in.ResetPassword {
		res.Mailed, res.MailErr = s.deliver(ctx, user, password, true)
	}
	return res, nil
}

// Delete removes an account. Admins cannot delete themselves, and accounts
// that still own articles are protected.
func (s *UserService) Delete(ctx context.Context, actorID, userID int64) error {
	if actorID == userID {
		return ErrSelfDelete
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByID(ctx, userID); err != nil {
			return err
		}

		count, err := tx.Articles().CountByAuthor(ctx, userID)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrUserHasArticles
		}

		if err := tx.Sessions().DeleteUserSessions(ctx, userID); err != nil {
			return err
		}
		return tx.Users().DeleteUser(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	slogx.FromContext(ctx).Info("user deleted", "user_id", userID, "actor_id", actorID)
	return nil
}

// ChangePassword is the self-service password change. The checks run in a
// fixed order: confirmation match, strength policy, then the current
// password. Success revokes every session of the user; the client must log
// in again with the new password.
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next, confirm string) error {
	if next != confirm {
		return ErrPasswordMismatch
	}
	if !cryptox.IsStrongPassword(next) {
		return ErrWeakPassword
	}

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := cryptox.VerifyPassword(current, user.PasswordHash); err != nil {
		return ErrWrongPassword
	}

	hash, err := cryptox.HashPassword(next)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		return tx.Sessions().DeleteUserSessions(ctx, userID)
	})
	if err != nil {
		return err
	}

	slogx.FromContext(ctx).Info("password changed", "user_id", userID)
	return nil
}

// deliver sends generated credentials. mailed is true only on an actual
// successful send; a nil mailer reports (false, nil) so the caller can tell
// "not sent" apart from "send failed".
func (s *UserService) deliver(ctx context.Context, user domain.User, password string, reset bool) (mailed bool, err error) {
	if s.Mailer == nil {
		return false, nil
	}
	if err := s.Mailer.SendCredentials(ctx, user.Email, user.Username, password, reset); err != nil {
		slogx.FromContext(ctx).Warn("credential mail failed", "user_id", user.ID, "error", err)
		return false, err
	}
	return true, nil
}
