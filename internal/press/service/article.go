package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/assets"
	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/store"
	"github.com/pressroomhq/pressroom/pkg/slogx"
)

// AssetStore is the slice of the asset layer the article service needs.
type AssetStore interface {
	// Save persists an upload under a fresh generated name and returns it.
	Save(originalName string, r io.Reader) (string, error)

	// Delete removes a stored asset. Missing assets are not an error.
	Delete(name string) error
}

// ImageUpload is an incoming article image.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

type ArticleInput struct {
	Title     string
	Content   string
	Published bool

	// Image, when set, replaces the article's image.
	Image *ImageUpload

	// RemoveImage drops the existing image without a replacement. Ignored
	// when Image is set.
	RemoveImage bool
}

// ArticleService owns article CRUD and the ownership rules around it.
type ArticleService struct {
	Store  store.Store
	Assets AssetStore

	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

func (s *ArticleService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ListPublished returns the public feed, newest first.
func (s *ArticleService) ListPublished(ctx context.Context) ([]domain.Article, error) {
	return s.Store.Articles().ListPublished(ctx)
}

// Get returns one article if the viewer may see it. Drafts hidden from the
// viewer read as not found so their existence does not leak.
func (s *ArticleService) Get(ctx context.Context, viewer *domain.Identity, id int64) (domain.Article, error) {
	a, err := s.Store.Articles().GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Article{}, ErrNotFound
		}
		return domain.Article{}, err
	}
	if !a.ViewableBy(viewer) {
		return domain.Article{}, ErrNotFound
	}
	return a, nil
}

// ListDashboard returns the actor's working set: admins see every article,
// authors see their own.
func (s *ArticleService) ListDashboard(ctx context.Context, actor *domain.Identity) ([]domain.Article, error) {
	if actor == nil {
		return nil, ErrForbidden
	}
	if actor.IsAdmin {
		return s.Store.Articles().ListAll(ctx)
	}
	return s.Store.Articles().ListByAuthor(ctx, actor.UserID)
}

// Create stores a new article owned by the actor. The author is always the
// actor; it cannot be supplied by the caller.
func (s *ArticleService) Create(ctx context.Context, actor *domain.Identity, in ArticleInput) (domain.Article, error) {
	if actor == nil {
		return domain.Article{}, ErrForbidden
	}
	now := s.now()

	// 1. Persist the image first so a failed upload never leaves a record
	//    pointing at nothing.
	var imagePath string
	if in.Image != nil {
		name, err := s.saveImage(in.Image)
		if err != nil {
			return domain.Article{}, err
		}
		imagePath = name
	}

	article := domain.Article{
		Title:      in.Title,
		Content:    in.Content,
		ImagePath:  imagePath,
		AuthorID:   actor.UserID,
		AuthorName: actor.Username,
		Published:  in.Published,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// 2. Insert the record.
	id, err := s.Store.Articles().CreateArticle(ctx, article)
	if err != nil {
		// Roll back the stored image rather than leave an orphan.
		if imagePath != "" {
			_ = s.Assets.Delete(imagePath)
		}
		return domain.Article{}, err
	}
	article.ID = id

	slogx.FromContext(ctx).Info("article created", "article_id", id, "author_id", actor.UserID, "published", in.Published)
	return article, nil
}

// Update mutates an article the actor owns (or any article for admins).
// When the image changes, the new file is stored and the record updated
// before the old file is removed, so a failure cannot strand the record on
// a deleted asset.
func (s *ArticleService) Update(ctx context.Context, actor *domain.Identity, id int64, in ArticleInput) (domain.Article, error) {
	// 1. Load and authorize.
	current, err := s.Store.Articles().GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Article{}, ErrNotFound
		}
		return domain.Article{}, err
	}
	if !current.MutableBy(actor) {
		return domain.Article{}, ErrForbidden
	}

	// 2. Store the replacement image, if any.
	oldImage := current.ImagePath
	newImage := oldImage
	switch {
	case in.Image != nil:
		name, err := s.saveImage(in.Image)
		if err != nil {
			return domain.Article{}, err
		}
		newImage = name
	case in.RemoveImage:
		newImage = ""
	}

	current.Title = in.Title
	current.Content = in.Content
	current.Published = in.Published
	current.ImagePath = newImage
	current.UpdatedAt = s.now()

	// 3. Persist the record.
	if err := s.Store.Articles().UpdateArticle(ctx, current); err != nil {
		if newImage != oldImage && newImage != "" {
			_ = s.Assets.Delete(newImage)
		}
		return domain.Article{}, err
	}

	// 4. Only now drop the superseded file. A failure here leaves a
	//    harmless orphan for housekeeping.
	if oldImage != "" && oldImage != newImage {
		if err := s.Assets.Delete(oldImage); err != nil {
			slogx.FromContext(ctx).Warn("failed to remove replaced image", "article_id", id, "image", oldImage, "error", err)
		}
	}

	slogx.FromContext(ctx).Info("article updated", "article_id", id, "actor_id", actor.UserID)
	return current, nil
}

// Delete removes an article the actor owns (or any article for admins).
// Asset removal failures are logged, not surfaced: the record is gone and
// housekeeping collects the orphan.
func (s *ArticleService) Delete(ctx context.Context, actor *domain.Identity, id int64) error {
	current, err := s.Store.Articles().GetArticleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !current.MutableBy(actor) {
		return ErrForbidden
	}

	if err := s.Store.Articles().DeleteArticle(ctx, id); err != nil {
		return err
	}

	if current.ImagePath != "" {
		if err := s.Assets.Delete(current.ImagePath); err != nil {
			slogx.FromContext(ctx).Warn("failed to remove article image", "article_id", id, "image", current.ImagePath, "error", err)
		}
	}

	slogx.FromContext(ctx).Info("article deleted", "article_id", id, "actor_id", actor.UserID)
	return nil
}

func (s *ArticleService) saveImage(img *ImageUpload) (string, error) {
	name, err := s.Assets.Save(img.Filename, img.Data)
	if err != nil {
		if errors.Is(err, assets.ErrUnsupportedExtension) {
			return "", ErrUnsupportedImage
		}
		return "", err
	}
	return name, nil
}
