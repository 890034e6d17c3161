package domain

import "time"

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string // argon2 encoded, never the plaintext
	IsAdmin      bool
	Active       bool
	CreatedAt    time.Time
	LastLoginAt  *time.Time // nil until the first successful login
}

// Summary is the read-only projection of a user handed to callers. It never
// carries the credential hash.
type UserSummary struct {
	ID          int64
	Username    string
	Email       string
	IsAdmin     bool
	Active      bool
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		IsAdmin:     u.IsAdmin,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserListing is a summary row for the admin user screen, including how many
// articles the account owns (which gates deletion).
type UserListing struct {
	UserSummary
	ArticleCount int64
}
