package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pressroomhq/pressroom/internal/press/domain"
	"github.com/pressroomhq/pressroom/internal/press/service"
	"github.com/pressroomhq/pressroom/pkg/httpx"
)

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the health probes.
type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime,omitempty"`
	Version string `json:"version,omitempty"`
}

// UserResponse is the public shape of an account. It never carries the
// password hash.
type UserResponse struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsAdmin   bool       `json:"is_admin"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UserListingResponse is a UserResponse plus admin listing extras.
type UserListingResponse struct {
	UserResponse
	ArticleCount int64 `json:"article_count"`
}

// CredentialsResponse is returned when an account's password was generated.
// The password appears here exactly once and is never retrievable again.
type CredentialsResponse struct {
	User     UserResponse `json:"user"`
	Password string       `json:"password"`
	Mailed   bool         `json:"mailed"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type ArticleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	AuthorID  int64     `json:"author_id"`
	Author    string    `json:"author"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type StatsResponse struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	AdminUsers        int64 `json:"admin_users"`
	TotalArticles     int64 `json:"total_articles"`
	PublishedArticles int64 `json:"published_articles"`
	DraftArticles     int64 `json:"draft_articles"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsAdmin:   u.IsAdmin,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLoginAt,
	}
}

func toArticleResponse(a domain.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:        a.ID,
		Title:     a.Title,
		Content:   a.Content,
		AuthorID:  a.AuthorID,
		Author:    a.AuthorName,
		Published: a.Published,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.ImagePath != "" {
		resp.ImageURL = "/uploads/" + a.ImagePath
	}
	return resp
}

func toArticleResponses(articles []domain.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toArticleResponse(a))
	}
	return out
}

func writeError(w http.ResponseWriter, code int, msg string) {
	httpx.WriteJSON(w, code, ErrorResponse{Error: msg})
}

// writeServiceError maps service sentinels onto HTTP statuses. Anything
// unexpected logs the detail and returns a redacted 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidSession):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicate),
		errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrUserHasArticles):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrWeakPassword),
		errors.Is(err, service.ErrPasswordMismatch),
		errors.Is(err, service.ErrUnsupportedImage):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
