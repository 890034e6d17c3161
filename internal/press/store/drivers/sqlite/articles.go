package sqlite

import (
	"context"
	"database/sql"

	"github.com/pressroomhq/pressroom/internal/press/domain"
)

type articlesRepo struct {
	q dbtx
}

// articleColumns joins the author username so listings never need a second
// round trip per row.
const articleColumns = `
	a.id, a.title, a.content, a.image_path, a.author_id, u.username,
	a.published, a.created_at, a.updated_at
`

func scanArticleRow(scan func(dest ...any) error) (domain.Article, error) {
	var (
		a         domain.Article
		imagePath sql.NullString
	)
	err := scan(
		&a.ID,
		&a.Title,
		&a.Content,
		&imagePath,
		&a.AuthorID,
		&a.AuthorName,
		&a.Published,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Article{}, err
	}
	a.ImagePath = mapNullString(imagePath)
	return a, nil
}

func (r *articlesRepo) GetArticleByID(ctx context.Context, id int64) (domain.Article, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = ?
	`, id)
	a, err := scanArticleRow(row.Scan)
	if err != nil {
		return domain.Article{}, mapNotFound(err)
	}
	return a, nil
}

func (r *articlesRepo) ListPublished(ctx context.Context) ([]domain.Article, error) {
	return r.list(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.published = TRUE
		ORDER BY a.created_at DESC, a.id DESC
	`)
}

func (r *articlesRepo) ListAll(ctx context.Context) ([]domain.Article, error) {
	return r.list(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		ORDER BY a.created_at DESC, a.id DESC
	`)
}

func (r *articlesRepo) ListByAuthor(ctx context.Context, authorID int64) ([]domain.Article, error) {
	return r.list(ctx, `
		SELECT `+articleColumns+`
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.author_id = ?
		ORDER BY a.created_at DESC, a.id DESC
	`, authorID)
}

func (r *articlesRepo) list(ctx context.Context, query string, args ...any) ([]domain.Article, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Article
	for rows.Next() {
		a, err := scanArticleRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *articlesRepo) CreateArticle(ctx context.Context, a domain.Article) (int64, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO articles (title, content, image_path, author_id, published, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, a.Title, a.Content, mapStringNull(a.ImagePath), a.AuthorID, a.Published, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *articlesRepo) UpdateArticle(ctx context.Context, a domain.Article) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE articles
		SET title = ?, content = ?, image_path = ?, published = ?, updated_at = ?
		WHERE id = ?
	`, a.Title, a.Content, mapStringNull(a.ImagePath), a.Published, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *articlesRepo) DeleteArticle(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *articlesRepo) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM articles WHERE author_id = ?
	`, authorID).Scan(&count)
	return count, err
}

func (r *articlesRepo) ListImagePaths(ctx context.Context) ([]string, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT image_path FROM articles
		WHERE image_path IS NOT NULL AND image_path != ''
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
