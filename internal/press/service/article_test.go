package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressroomhq/pressroom/internal/press/assets"
)

func newArticleService(t *testing.T) (*ArticleService, *assets.Store) {
	t.Helper()

	files, err := assets.NewStore(t.TempDir(), nil)
	require.NoError(t, err)

	return &ArticleService{
		Store:  newTestStore(t),
		Assets: files,
		Now:    func() time.Time { return testNow },
	}, files
}

func upload(name, content string) *ImageUpload {
	return &ImageUpload{Filename: name, Data: strings.NewReader(content)}
}

func TestCreateArticleForcesAuthor(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title:     "Hello",
		Content:   "World",
		Published: true,
	})
	require.NoError(t, err)
	assert.Equal(t, author.ID, a.AuthorID)
	assert.Equal(t, "alice", a.AuthorName)
	assert.Empty(t, a.ImagePath)

	_, err = svc.Create(ctx, nil, ArticleInput{Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateArticleWithImage(t *testing.T) {
	svc, files := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title:   "Hello",
		Content: "World",
		Image:   upload("cover.png", "png-bytes"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, a.ImagePath)
	assert.NotEqual(t, "cover.png", a.ImagePath)

	data, err := os.ReadFile(filepath.Join(files.Dir(), a.ImagePath))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestCreateArticleRejectsBadImage(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)

	_, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title:   "Hello",
		Content: "World",
		Image:   upload("malware.exe", "nope"),
	})
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestGetHidesDraftsFromOthers(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)
	other := seedUser(t, svc.Store, "bob", "Secret@123", false)
	admin := seedUser(t, svc.Store, "root", "Secret@123", true)

	draft, err := svc.Create(ctx, identityOf(author), ArticleInput{Title: "Draft", Content: "wip"})
	require.NoError(t, err)

	// Anonymous and unrelated users see not-found, not forbidden.
	_, err = svc.Get(ctx, nil, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Get(ctx, identityOf(other), draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Author and admin can read it.
	_, err = svc.Get(ctx, identityOf(author), draft.ID)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, identityOf(admin), draft.ID)
	assert.NoError(t, err)
}

func TestListDashboardScope(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	alice := seedUser(t, svc.Store, "alice", "Secret@123", false)
	bob := seedUser(t, svc.Store, "bob", "Secret@123", false)
	admin := seedUser(t, svc.Store, "root", "Secret@123", true)

	_, err := svc.Create(ctx, identityOf(alice), ArticleInput{Title: "a1", Content: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, identityOf(bob), ArticleInput{Title: "b1", Content: "x"})
	require.NoError(t, err)

	own, err := svc.ListDashboard(ctx, identityOf(alice))
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "a1", own[0].Title)

	all, err := svc.ListDashboard(ctx, identityOf(admin))
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListDashboard(ctx, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateArticleOwnership(t *testing.T) {
	svc, _ := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)
	other := seedUser(t, svc.Store, "bob", "Secret@123", false)
	admin := seedUser(t, svc.Store, "root", "Secret@123", true)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{Title: "v1", Content: "x"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, identityOf(other), a.ID, ArticleInput{Title: "v2", Content: "x"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Update(ctx, nil, a.ID, ArticleInput{Title: "v2", Content: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(ctx, identityOf(admin), a.ID, ArticleInput{Title: "v2", Content: "x", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Title)
	assert.True(t, updated.Published)
	// Ownership does not move to the editor.
	assert.Equal(t, author.ID, updated.AuthorID)
}

func TestUpdateArticleReplacesImage(t *testing.T) {
	svc, files := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title: "v1", Content: "x", Image: upload("old.png", "old"),
	})
	require.NoError(t, err)
	oldImage := a.ImagePath

	updated, err := svc.Update(ctx, identityOf(author), a.ID, ArticleInput{
		Title: "v1", Content: "x", Image: upload("new.jpg", "new"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, oldImage, updated.ImagePath)

	// The old file is gone, the new one exists.
	_, err = os.Stat(filepath.Join(files.Dir(), oldImage))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(files.Dir(), updated.ImagePath))
	assert.NoError(t, err)
}

func TestUpdateArticleRemoveImage(t *testing.T) {
	svc, files := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title: "v1", Content: "x", Image: upload("pic.png", "img"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, identityOf(author), a.ID, ArticleInput{
		Title: "v1", Content: "x", RemoveImage: true,
	})
	require.NoError(t, err)
	assert.Empty(t, updated.ImagePath)

	_, err = os.Stat(filepath.Join(files.Dir(), a.ImagePath))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteArticleRemovesAsset(t *testing.T) {
	svc, files := newArticleService(t)
	ctx := context.Background()

	author := seedUser(t, svc.Store, "alice", "Secret@123", false)
	other := seedUser(t, svc.Store, "bob", "Secret@123", false)

	a, err := svc.Create(ctx, identityOf(author), ArticleInput{
		Title: "v1", Content: "x", Image: upload("pic.png", "img"),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, identityOf(other), a.ID), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, identityOf(author), a.ID))

	_, err = svc.Get(ctx, identityOf(author), a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = os.Stat(filepath.Join(files.Dir(), a.ImagePath))
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, svc.Delete(ctx, identityOf(author), a.ID), ErrNotFound)
}
