package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/store"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, email, password_hash, is_admin, active, created_at, last_login`

func scanUser(row *sql.Row) (domain.User, error) {
	var (
		u         domain.User
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.Active,
		&u.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = ?
	`, id))
}

func (r *usersRepo) GetActiveUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username = ? AND active = TRUE
	`, username))
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.UserListing, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.is_admin, u.active, u.created_at, u.last_login,
		       COUNT(a.id)
		FROM users u
		LEFT JOIN articles a ON a.author_id = u.id
		GROUP BY u.id
		ORDER BY u.created_at DESC, u.id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.UserListing
	for rows.Next() {
		var (
			l         domain.UserListing
			lastLogin sql.NullTime
		)
		if err := rows.Scan(
			&l.ID,
			&l.Username,
			&l.Email,
			&l.IsAdmin,
			&l.Active,
			&l.CreatedAt,
			&lastLogin,
			&l.ArticleCount,
		); err != nil {
			return nil, err
		}
		l.LastLoginAt = mapNullTimePtr(lastLogin)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin, active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.PasswordHash, u.IsAdmin, u.Active, u.CreatedAt)
	if err != nil {
		return 0, mapUnique(err)
	}
	return res.LastInsertId()
}

func (r *usersRepo) UpdateUser(ctx context.Context, u domain.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET username = ?, email = ?, is_admin = ?, active = ?
		WHERE id = ?
	`, u.Username, u.Email, u.IsAdmin, u.Active, u.ID)
	if err != nil {
		return mapUnique(err)
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID int64, newHash string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?
		WHERE id = ?
	`, newHash, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET last_login = ?
		WHERE id = ?
	`, at, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// requireRow maps a zero-row UPDATE/DELETE to store.ErrNotFound.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
