package store

import (
	"context"
	"errors"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Articles() Articles
	Sessions() Sessions
	Settings() Settings

	// Stats aggregates the user and article counts for the admin dashboard.
	Stats(ctx context.Context) (domain.Stats, error)

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction. If fn returns an
	// error, the transaction is rolled back; otherwise it is committed.
	// This is the recommended way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetActiveUserByUsername looks up a login candidate. Inactive accounts
	// are filtered out here so login cannot distinguish them from unknown
	// usernames.
	GetActiveUserByUsername(ctx context.Context, username string) (domain.User, error)

	// ListUsers returns every account (newest first) with its article count.
	ListUsers(ctx context.Context) ([]domain.UserListing, error)

	// CreateUser inserts a new user and returns the assigned id.
	// Duplicate username or email maps to ErrAlreadyExists.
	CreateUser(ctx context.Context, u domain.User) (int64, error)

	// UpdateUser mutates username, email, is_admin and active.
	UpdateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2).
	UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error

	// UpdateLastLogin records a successful authentication.
	UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error

	// DeleteUser removes the account. Callers enforce the article guard first.
	DeleteUser(ctx context.Context, userID int64) error

	// IsEmpty returns true if there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Articles interface {
	// GetArticleByID returns an article with its author username joined.
	GetArticleByID(ctx context.Context, id int64) (domain.Article, error)

	// ListPublished returns published articles, newest first.
	ListPublished(ctx context.Context) ([]domain.Article, error)

	// ListAll returns every article, newest first (admin dashboard).
	ListAll(ctx context.Context) ([]domain.Article, error)

	// ListByAuthor returns one author's articles, newest first.
	ListByAuthor(ctx context.Context, authorID int64) ([]domain.Article, error)

	// CreateArticle inserts a new article and returns the assigned id.
	CreateArticle(ctx context.Context, a domain.Article) (int64, error)

	// UpdateArticle mutates title, content, image_path and published, and
	// refreshes updated_at from the given article value.
	UpdateArticle(ctx context.Context, a domain.Article) error

	// DeleteArticle removes the record.
	DeleteArticle(ctx context.Context, id int64) error

	// CountByAuthor gates account deletion.
	CountByAuthor(ctx context.Context, authorID int64) (int64, error)

	// ListImagePaths returns every non-empty image reference, for the
	// orphaned-asset sweep.
	ListImagePaths(ctx context.Context) ([]string, error)
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns a session that has not expired at `now`.
	GetSessionByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Session, error)

	// DeleteSessionByTokenHash removes a session; deleting a missing
	// session is not an error (logout is idempotent).
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	// DeleteUserSessions revokes every session of a user (password reset,
	// deactivation, deletion).
	DeleteUserSessions(ctx context.Context, userID int64) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context, now time.Time) error
}

type Settings interface {
	// Get returns a setting value, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a setting value.
	Set(ctx context.Context, key, value string) error
}
