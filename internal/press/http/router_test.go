package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "Secret@123", false)

	token := env.login(t, "alice", "Secret@123")

	rec := env.do(t, "GET", "/v1/me", token, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)
	assert.NotNil(t, me.LastLogin)

	// No session, no profile.
	rec = env.do(t, "GET", "/v1/me", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "Secret@123", false)

	rec := env.do(t, "POST", "/v1/auth/login", "", jsonBody(t, map[string]string{
		"username": "alice", "password": "Wrong@123",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The error body does not hint at which part was wrong.
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid credentials", resp.Error)
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)

	// Hammer a single username from a single address until the strict
	// limiter kicks in.
	limited := false
	for i := 0; i < 10; i++ {
		rec := env.do(t, "POST", "/v1/auth/login", "", jsonBody(t, map[string]string{
			"username": "victim", "password": fmt.Sprintf("guess-%d", i),
		}), "application/json")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.True(t, limited, "login was never rate limited")
}

func TestLogoutInvalidatesToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "Secret@123", false)
	token := env.login(t, "alice", "Secret@123")

	rec := env.do(t, "POST", "/v1/auth/logout", token, nil, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, "GET", "/v1/me", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "Secret@123", false)
	token := env.login(t, "alice", "Secret@123")

	// Weak replacement is rejected.
	rec := env.do(t, "PUT", "/v1/me/password", token, jsonBody(t, map[string]string{
		"current_password": "Secret@123",
		"new_password":     "weak",
		"confirm_password": "weak",
	}), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, "PUT", "/v1/me/password", token, jsonBody(t, map[string]string{
		"current_password": "Secret@123",
		"new_password":     "Fresh@4567",
		"confirm_password": "Fresh@4567",
	}), "application/json")
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The old session died with the change.
	rec = env.do(t, "GET", "/v1/me", token, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.login(t, "alice", "Fresh@4567")
}

func TestArticleLifecycle(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "author", "Secret@123", false)
	env.createUser(t, "rival", "Secret@123", false)
	authorToken := env.login(t, "author", "Secret@123")
	rivalToken := env.login(t, "rival", "Secret@123")

	// Create a draft with an image.
	body, contentType := articleFormBody(t, map[string]string{
		"title":     "My Draft",
		"content":   "Work in progress",
		"published": "false",
	}, "cover.png", "png-bytes")
	rec := env.do(t, "POST", "/v1/articles", authorToken, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	article := decodeArticle(t, rec)
	assert.Equal(t, "author", article.Author)
	require.NotEmpty(t, article.ImageURL)

	// The stored image is served.
	rec = env.do(t, "GET", article.ImageURL, "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	url := fmt.Sprintf("/v1/articles/%d", article.ID)

	// Drafts are invisible to the public feed and to other users.
	rec = env.do(t, "GET", "/v1/articles", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []ArticleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Empty(t, feed)

	rec = env.do(t, "GET", url, "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, "GET", url, rivalToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, "GET", url, authorToken, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Only the author can edit.
	body, contentType = articleFormBody(t, map[string]string{
		"title": "Stolen", "content": "haha", "published": "true",
	}, "", "")
	rec = env.do(t, "PUT", url, rivalToken, body, contentType)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	body, contentType = articleFormBody(t, map[string]string{
		"title": "My Post", "content": "Finished", "published": "true",
	}, "", "")
	rec = env.do(t, "PUT", url, authorToken, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeArticle(t, rec)
	assert.True(t, updated.Published)
	// The image survived an update without a new upload.
	assert.Equal(t, article.ImageURL, updated.ImageURL)

	// Published articles show up publicly.
	rec = env.do(t, "GET", "/v1/articles", "", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "My Post", feed[0].Title)

	// Delete is owner-only too.
	rec = env.do(t, "DELETE", url, rivalToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = env.do(t, "DELETE", url, authorToken, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(t, "GET", url, authorToken, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestArticleRejectsBadImage(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "author", "Secret@123", false)
	token := env.login(t, "author", "Secret@123")

	body, contentType := articleFormBody(t, map[string]string{
		"title": "Post", "content": "Body",
	}, "payload.exe", "MZ")
	rec := env.do(t, "POST", "/v1/articles", token, body, contentType)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDashboardScope(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "Secret@123", false)
	env.createUser(t, "root", "Secret@123", true)
	aliceToken := env.login(t, "alice", "Secret@123")
	rootToken := env.login(t, "root", "Secret@123")

	body, contentType := articleFormBody(t, map[string]string{
		"title": "Alice Draft", "content": "x",
	}, "", "")
	rec := env.do(t, "POST", "/v1/articles", aliceToken, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var articles []ArticleResponse

	rec = env.do(t, "GET", "/v1/dashboard/articles", aliceToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	assert.Len(t, articles, 1)

	// The admin dashboard includes other authors' drafts.
	rec = env.do(t, "GET", "/v1/dashboard/articles", rootToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &articles))
	assert.Len(t, articles, 1)

	rec = env.do(t, "GET", "/v1/dashboard/articles", "", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminUserManagement(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root", "Secret@123", true)
	env.createUser(t, "pleb", "Secret@123", false)
	rootToken := env.login(t, "root", "Secret@123")
	plebToken := env.login(t, "pleb", "Secret@123")

	// Non-admins are locked out wholesale.
	rec := env.do(t, "GET", "/v1/admin/users", plebToken, nil, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Create a user; the generated password comes back once.
	rec = env.do(t, "POST", "/v1/admin/users", rootToken, jsonBody(t, map[string]any{
		"username": "newbie", "email": "newbie@example.com",
	}), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created CredentialsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Password)
	assert.False(t, created.Mailed) // no SMTP configured in tests

	// The fresh account can log in with the generated password.
	env.login(t, "newbie", created.Password)

	// Duplicate username conflicts.
	rec = env.do(t, "POST", "/v1/admin/users", rootToken, jsonBody(t, map[string]any{
		"username": "newbie", "email": "other@example.com",
	}), "application/json")
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Listing carries article counts.
	rec = env.do(t, "GET", "/v1/admin/users", rootToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listings []UserListingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	assert.Len(t, listings, 3)

	// Self-delete is refused.
	var rootID int64
	for _, l := range listings {
		if l.Username == "root" {
			rootID = l.ID
		}
	}
	rec = env.do(t, "DELETE", fmt.Sprintf("/v1/admin/users/%d", rootID), rootToken, nil, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminDeactivationKillsSession(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root", "Secret@123", true)
	victim := env.createUser(t, "victim", "Secret@123", false)
	rootToken := env.login(t, "root", "Secret@123")
	victimToken := env.login(t, "victim", "Secret@123")

	rec := env.do(t, "PUT", fmt.Sprintf("/v1/admin/users/%d", victim.ID), rootToken, jsonBody(t, map[string]any{
		"username": "victim", "email": "victim@example.com", "active": false,
	}), "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, "GET", "/v1/me", victimToken, nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// And the account cannot log back in.
	rec = env.do(t, "POST", "/v1/auth/login", "", jsonBody(t, map[string]string{
		"username": "victim", "password": "Secret@123",
	}), "application/json")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "root", "Secret@123", true)
	rootToken := env.login(t, "root", "Secret@123")

	rec := env.do(t, "GET", "/v1/admin/stats", rootToken, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.AdminUsers)
}

func TestHealthProbes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/livez", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, "GET", "/readyz", "", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var ready ReadyHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, "ok", ready.Checks.Database)
}

func TestUploadsRefusesTraversal(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, "GET", "/uploads/..%2F..%2Fetc%2Fpasswd", "", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
