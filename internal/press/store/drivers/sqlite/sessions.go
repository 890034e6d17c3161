package sqlite

import (
	"context"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
)

type sessionsRepo struct {
	q dbtx
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, s.ID, s.UserID, s.TokenHash, s.CreatedAt, s.ExpiresAt)
	return mapUnique(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string, now time.Time) (domain.Session, error) {
	var s domain.Session
	err := r.q.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM sessions
		WHERE token_hash = ? AND expires_at > ?
	`, hash, now).Scan(&s.ID, &s.UserID, &s.TokenHash, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) DeleteSessionByTokenHash(ctx context.Context, hash string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, hash)
	return err
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID int64) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	return err
}
